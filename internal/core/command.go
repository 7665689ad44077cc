package core

// CommandKind describes what a connection wants the router to do.
type CommandKind int

const (
	// CommandRegister binds the connection to a user identity.
	CommandRegister CommandKind = iota
	// CommandSendMessage delivers a direct message to another user.
	CommandSendMessage
	// CommandLogout unbinds the user and closes the connection.
	CommandLogout
	// CommandDisconnect is synthesized by the router's pump when the
	// transport closes the command channel; clients never send it.
	CommandDisconnect
)

// Command is a tagged request from a connection to the router.
type Command struct {
	Kind   CommandKind
	UserID string // register, logout
	To     string // send-message recipient
	Text   string // send-message body
}
