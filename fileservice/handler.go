package fileservice

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
)

// Handler serves one accepted connection: the per-client command loop,
// transaction state and advisory-lock ownership of spec.md §4.4. Each
// handler opens its own independent file handle, since the whole-file
// advisory lock is attached to a handle, not to a path.
//
// The lock lives on h.file, opened independently per handler so flock's
// per-open-file-description semantics give each handler its own lockable
// handle. Data I/O goes through h.store instead, which reopens the path
// on every load/save — the same split the original C++ server used
// (a dedicated fd for flock, plain ifstream/ofstream for the CSV itself).
type Handler struct {
	id          string
	conn        net.Conn
	file        *os.File
	store       *Store
	transaction bool
	log         *log.Logger
}

// NewHandler opens the handler's own file handle. If the open fails, the
// caller must still send the client an error and close the connection —
// per spec.md §4.4, that is the caller's (Listener's) responsibility so
// the admission message has already gone out before the handler starts.
func NewHandler(conn net.Conn, storePath string, logger *log.Logger) (*Handler, error) {
	f, err := os.OpenFile(storePath, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return nil, fmt.Errorf("open %s for locking: %w", storePath, err)
	}

	return &Handler{
		id:    uuid.New().String(),
		conn:  conn,
		file:  f,
		store: NewStore(storePath),
		log:   logger,
	}, nil
}

// Serve runs the command loop until the client disconnects or a write
// fails. It always releases the advisory lock and closes both handles
// before returning, per spec.md §4.4's abnormal-exit clause.
func (h *Handler) Serve() {
	defer h.cleanup()

	reader := bufio.NewReader(h.conn)
	writer := bufio.NewWriter(h.conn)

	h.log.Printf("[handler %s] serving", h.id)

	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			response := h.dispatch(line)
			if _, werr := writer.WriteString(response); werr != nil {
				h.log.Printf("[handler %s] write failed: %s", h.id, werr)
				return
			}
			if ferr := writer.Flush(); ferr != nil {
				h.log.Printf("[handler %s] flush failed: %s", h.id, ferr)
				return
			}
		}
		if err != nil {
			// EOF or a read error: treat as a clean disconnect either way,
			// per spec.md §7 kind 6.
			return
		}
	}
}

func (h *Handler) dispatch(line string) string {
	fields := strings.SplitN(line, " ", 2)
	command := fields[0]
	rest := ""
	if len(fields) == 2 {
		rest = strings.TrimLeft(fields[1], " \t")
	}

	switch command {
	case "QUERY":
		return h.handleQuery(rest)
	case "BEGIN_TRANSACTION":
		return h.handleBegin()
	case "COMMIT_TRANSACTION":
		return h.handleCommit()
	case "ADD":
		return h.handleAdd(rest)
	case "MODIFY":
		return h.handleModify(rest)
	case "DELETE":
		return h.handleDelete(rest)
	default:
		return fmt.Sprintf(unknownCommandMessage, command)
	}
}

func (h *Handler) handleQuery(term string) string {
	lines, err := h.store.Load()
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err)
	}

	matches, headerOnly := Query(lines, term)
	if len(matches) == 0 || headerOnly {
		return fmt.Sprintf("No records found for '%s'.\n", term)
	}

	return strings.Join(matches, "\n") + "\n"
}

func (h *Handler) handleBegin() string {
	if h.transaction {
		return "ERROR: A transaction is already active for this client.\n"
	}

	err := syscall.Flock(int(h.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err != nil {
		if err == syscall.EWOULDBLOCK {
			return "ERROR: Another transaction is active. Please reattempt later.\n"
		}
		return fmt.Sprintf("ERROR: Could not acquire file lock: %s\n", err)
	}

	h.transaction = true
	return "Transaction started. File locked.\n"
}

func (h *Handler) handleCommit() string {
	if !h.transaction {
		return "ERROR: No active transaction to commit.\n"
	}

	syscall.Flock(int(h.file.Fd()), syscall.LOCK_UN)
	h.transaction = false
	return "Transaction committed. File unlocked.\n"
}

func (h *Handler) handleAdd(record string) string {
	if !h.transaction {
		return "ERROR: ADD requires an active transaction.\n"
	}
	if record == "" {
		return "ERROR: ADD command requires record data.\n"
	}

	lines, err := h.store.Load()
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err)
	}

	lines = Add(lines, record)

	if err := h.store.Save(lines); err != nil {
		return fmt.Sprintf("ERROR: Failed to write to CSV file: %s\n", err)
	}

	return fmt.Sprintf("Record added: %s\n", record)
}

func (h *Handler) handleModify(rest string) string {
	if !h.transaction {
		return "ERROR: MODIFY requires an active transaction.\n"
	}

	fields := strings.SplitN(rest, " ", 2)
	if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
		return "ERROR: MODIFY command requires an ID and new record data.\n"
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return "ERROR: Invalid ID format.\n"
	}
	newLine := strings.TrimLeft(fields[1], " \t")

	lines, err := h.store.Load()
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err)
	}

	lines, found, err := Modify(lines, id, newLine)
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err)
	}
	if !found {
		return fmt.Sprintf("ERROR: Record with ID %d not found.\n", id)
	}

	if err := h.store.Save(lines); err != nil {
		return fmt.Sprintf("ERROR: Failed to write to CSV file: %s\n", err)
	}

	return fmt.Sprintf("Record ID %d modified to: %s\n", id, newLine)
}

func (h *Handler) handleDelete(rest string) string {
	if !h.transaction {
		return "ERROR: DELETE requires an active transaction.\n"
	}
	if rest == "" {
		return "ERROR: DELETE command requires an ID.\n"
	}

	id, err := strconv.Atoi(strings.Fields(rest)[0])
	if err != nil {
		return "ERROR: Invalid ID format.\n"
	}

	lines, err := h.store.Load()
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err)
	}

	lines, found := Delete(lines, id)
	if !found {
		return fmt.Sprintf("ERROR: Record with ID %d not found.\n", id)
	}

	if err := h.store.Save(lines); err != nil {
		return fmt.Sprintf("ERROR: Failed to write to CSV file: %s\n", err)
	}

	return fmt.Sprintf("Record ID %d deleted.\n", id)
}

func (h *Handler) cleanup() {
	if h.transaction {
		syscall.Flock(int(h.file.Fd()), syscall.LOCK_UN)
		h.log.Printf("[handler %s] WARNING: client disconnected during an active transaction, lock released", h.id)
		h.transaction = false
	}
	h.file.Close()
	h.conn.Close()
	h.log.Printf("[handler %s] disconnected", h.id)
}
