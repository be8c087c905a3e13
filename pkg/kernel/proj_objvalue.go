package kernel

import "strings"

type JobTitle string

type JobDescription string

type JobSlug string

func (s JobSlug) String() string { return string(s) }
func (s JobSlug) IsEmpty() bool  { return string(s) == "" }

type Email string

func NewEmail(addr string) Email {
	return Email(strings.ToLower(strings.TrimSpace(addr)))
}

func (e Email) String() string { return string(e) }

// IsValid is a shallow shape check; real validation happens at the edge.
func (e Email) IsValid() bool {
	at := strings.Index(string(e), "@")
	return at > 0 && at < len(e)-1
}

type BucketURL string

func (b BucketURL) String() string { return string(b) }
func (b BucketURL) IsEmpty() bool  { return string(b) == "" }
