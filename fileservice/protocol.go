package fileservice

// Admission messages, per spec.md §4.3's wire contract: clients recognize
// readiness by these substrings, any other informational message keeps a
// client waiting, and a message containing "Connection refused" ends the
// client side of the exchange.
const (
	MsgReady    = "Connected and ready to process commands.\n"
	MsgYourTurn = "Your turn! Processing your request now.\n"
	MsgQueued   = "You are queued. Please wait for your turn.\n"
	MsgRefused  = "Connection refused: server is at capacity.\n"
)

const unknownCommandMessage = "ERROR: Unknown command '%s'.\nAvailable commands: QUERY <term>, BEGIN_TRANSACTION, COMMIT_TRANSACTION, ADD <data>, MODIFY <id> <data>, DELETE <id>.\n"
