package model

import "time"

// DocumentMeta carries the document information handed to the renderer
// and to the embedding step.
type DocumentMeta struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string
	Keywords []string
	Created  time.Time
	Modified time.Time
}
