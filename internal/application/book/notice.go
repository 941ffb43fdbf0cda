package book

// NoticeKind 提示类型
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice 一次性提示（toast）
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// 提示文案，与界面保持一致
const (
	MsgAdded        = "Book added successfully"
	MsgAddFailed    = "Failed to add book"
	MsgUpdated      = "Book updated successfully"
	MsgUpdateFailed = "Failed to update book"
	MsgDeleted      = "Book deleted"
	MsgDeleteFailed = "Failed to delete"
)

func success(msg string) Notice { return Notice{Kind: NoticeSuccess, Message: msg} }

func failure(msg string) Notice { return Notice{Kind: NoticeError, Message: msg} }

// IsError 是否失败提示
func (n Notice) IsError() bool { return n.Kind == NoticeError }
