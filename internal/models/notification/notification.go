package notification

type Notification struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	TaskID    int64  `json:"taskId"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

// UnreadCount drives the header badge.
func UnreadCount(list []Notification) int {
	n := 0
	for _, item := range list {
		if !item.Read {
			n++
		}
	}
	return n
}
