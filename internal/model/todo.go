// Package model holds the entity types shared by the store, the services
// and the agent tool layer.
package model

// TodoKind distinguishes plain todos from section headers.
type TodoKind string

const (
	KindTodo    TodoKind = "todo"
	KindHeader1 TodoKind = "h1"
	KindHeader2 TodoKind = "h2"
	KindHeader3 TodoKind = "h3"
)

var validKinds = map[TodoKind]bool{
	KindTodo:    true,
	KindHeader1: true,
	KindHeader2: true,
	KindHeader3: true,
}

// ValidateKind returns an error if k is not a known todo kind.
func ValidateKind(k TodoKind) error {
	if !validKinds[k] {
		return Invalid("kind", "must be one of: todo, h1, h2, h3")
	}
	return nil
}

// Todo is a single entry in a per-date list, a folder or the backlog.
type Todo struct {
	ID        string   `json:"id" db:"id"`
	OwnerID   string   `json:"owner_id" db:"owner_id"`
	Date      *Date    `json:"date,omitempty" db:"date"`
	Content   string   `json:"content" db:"content"`
	Kind      TodoKind `json:"kind" db:"kind"`
	Completed bool     `json:"completed" db:"completed"`
	Archived  bool     `json:"archived" db:"archived"`
	Order     int64    `json:"order" db:"sort_order"`
	ParentID  *string  `json:"parent_id,omitempty" db:"parent_id"`
	Collapsed bool     `json:"collapsed" db:"collapsed"`
	Pinned    bool     `json:"pinned" db:"pinned"`
	FolderID  *string  `json:"folder_id,omitempty" db:"folder_id"`
	Backlog   bool     `json:"backlog" db:"backlog"`
	CreatedAt string   `json:"created_at" db:"created_at"`
	UpdatedAt string   `json:"updated_at" db:"updated_at"`
}

// DateValue returns the todo's date or the zero Date.
func (t Todo) DateValue() Date {
	if t.Date == nil {
		return ""
	}
	return *t.Date
}

// Qualifies reports whether the todo counts toward the completion streak.
// A todo archived as the done marker (completed and archived) still counts;
// one archived while incomplete does not.
func (t Todo) Qualifies() bool {
	if t.Date == nil || *t.Date == "" || t.FolderID != nil || t.Backlog || t.Pinned {
		return false
	}
	return !t.Archived || t.Completed
}

// TodoPatch is a partial update. Nil fields are left unchanged.
// ClearDate, ClearFolder and ClearParent null out the matching column.
type TodoPatch struct {
	Content     *string
	Kind        *TodoKind
	Completed   *bool
	Archived    *bool
	Pinned      *bool
	Collapsed   *bool
	Backlog     *bool
	Order       *int64
	Date        *Date
	ClearDate   bool
	FolderID    *string
	ClearFolder bool
	ParentID    *string
	ClearParent bool
}

// Empty reports whether the patch changes nothing.
func (p TodoPatch) Empty() bool {
	return p.Content == nil && p.Kind == nil && p.Completed == nil && p.Archived == nil &&
		p.Pinned == nil && p.Collapsed == nil && p.Backlog == nil && p.Order == nil &&
		p.Date == nil && !p.ClearDate && p.FolderID == nil && !p.ClearFolder &&
		p.ParentID == nil && !p.ClearParent
}

// Folder groups todos and notes outside the per-date lists.
type Folder struct {
	ID        string `json:"id" db:"id"`
	OwnerID   string `json:"owner_id" db:"owner_id"`
	Name      string `json:"name" db:"name"`
	Archived  bool   `json:"archived" db:"archived"`
	Order     int64  `json:"order" db:"sort_order"`
	CreatedAt string `json:"created_at" db:"created_at"`
}

// MonthGroup is a named container that dates can be filed under.
type MonthGroup struct {
	ID        string `json:"id" db:"id"`
	OwnerID   string `json:"owner_id" db:"owner_id"`
	Name      string `json:"name" db:"name"`
	CreatedAt string `json:"created_at" db:"created_at"`
}
