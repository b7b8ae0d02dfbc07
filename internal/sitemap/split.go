package sitemap

// Counters track the file currently open for a group. Size includes the
// header and footer, so it is the byte size the file will have once
// finalized with nothing more written.
type Counters struct {
	Lines     int
	Size      int64
	Increment int
}

// SplitFunc decides, before a row of rowLen bytes is written, whether the
// open file must be finalized first.
type SplitFunc func(c Counters, rowLen int) bool

// Limits is the line and byte policy of a single sitemap file.
type Limits struct {
	MaxLines int
	MaxBytes int64
}

// Split reports whether accepting the row would push the file past either
// limit. A row landing exactly on a limit is accepted.
func (l Limits) Split(c Counters, rowLen int) bool {
	if l.MaxLines > 0 && c.Lines+1 > l.MaxLines {
		return true
	}
	if l.MaxBytes > 0 && c.Size+int64(rowLen) > l.MaxBytes {
		return true
	}
	return false
}
