package blog

// PostPage is one page of a post listing.
type PostPage struct {
	Posts  []Post
	Number int
	Size   int
	Total  int
}

func (p PostPage) NumPages() int {
	if p.Total == 0 || p.Size < 1 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

func (p PostPage) HasPrevious() bool {
	return p.Number > 1
}

func (p PostPage) HasNext() bool {
	return p.Number < p.NumPages()
}

func (p PostPage) PreviousNumber() int {
	return p.Number - 1
}

func (p PostPage) NextNumber() int {
	return p.Number + 1
}
