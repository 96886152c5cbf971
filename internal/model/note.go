package model

// Note is an inline or full-page note.
type Note struct {
	ID         string  `json:"id" db:"id"`
	OwnerID    string  `json:"owner_id" db:"owner_id"`
	Date       *Date   `json:"date,omitempty" db:"date"`
	FolderID   *string `json:"folder_id,omitempty" db:"folder_id"`
	Title      *string `json:"title,omitempty" db:"title"`
	Content    string  `json:"content" db:"content"`
	Order      int64   `json:"order" db:"sort_order"`
	IsPage     bool    `json:"is_page" db:"is_page"`
	ShareToken *string `json:"share_token,omitempty" db:"share_token"`
	CreatedAt  string  `json:"created_at" db:"created_at"`
	UpdatedAt  string  `json:"updated_at" db:"updated_at"`
}

// NotePatch is a partial note update. Nil fields are left unchanged.
type NotePatch struct {
	Title    *string
	Content  *string
	Date     *Date
	FolderID *string
	Order    *int64
}

// Empty reports whether the patch changes nothing.
func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Date == nil && p.FolderID == nil && p.Order == nil
}
