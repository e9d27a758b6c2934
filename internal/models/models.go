package models

type Post struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Tag     string `json:"tag"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// PostInput - все изменяемые поля поста, без id
type PostInput struct {
	Title   string `json:"title"`
	Tag     string `json:"tag"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// Apply заменяет все поля поста, кроме ID
func (in PostInput) Apply(p *Post) {
	p.Title = in.Title
	p.Tag = in.Tag
	p.Author = in.Author
	p.Date = in.Date
	p.Content = in.Content
}

// Clone возвращает копию коллекции, не разделяющую память с исходной
func Clone(posts []Post) []Post {
	out := make([]Post, len(posts))
	copy(out, posts)
	return out
}
