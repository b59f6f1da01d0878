package entity

// User is the author referenced by Article.UserID. It is read-only from the
// article use cases' point of view.
type User struct {
	ID    int64
	Name  string
	Email string
}
