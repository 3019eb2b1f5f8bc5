package dto

// Upload is a file received from a multipart form, fully read into memory.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Empty reports whether no file content was supplied.
func (u *Upload) Empty() bool {
	return u == nil || len(u.Data) == 0
}
