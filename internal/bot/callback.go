package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"purchase-bot/internal/storage"
)

// ErrMalformedPayload marks callback data that cannot be parsed back into the
// command and operands that produced it.
var ErrMalformedPayload = errors.New("malformed callback payload")

const payloadSeparator = " "

// encodePayload joins a command key and its operands into callback data.
// Operands must not contain the separator; numeric ids and role tags satisfy
// this by construction, anything else is rejected.
func encodePayload(key string, operands ...string) (string, error) {
	for _, op := range operands {
		if strings.ContainsAny(op, " \t\n") {
			return "", fmt.Errorf("%w: operand %q contains separator", ErrMalformedPayload, op)
		}
	}
	return strings.Join(append([]string{key}, operands...), payloadSeparator), nil
}

func decodePayload(data string) (key string, operands []string, err error) {
	fields := strings.Fields(data)
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}
	return fields[0], fields[1:], nil
}

// articleRef is the whole navigation state carried between renders: there is
// no server-side session, the payload is the session. Seq is the 1-based
// position within the role-filtered, id-ordered article set; it can go stale
// when the set changes between renders, which is tolerated.
type articleRef struct {
	ID   int64
	Seq  int
	Role storage.Role
}

func (r articleRef) payload() string {
	return fmt.Sprintf("%s %d %d %s", cmdToArticle, r.ID, r.Seq, r.Role)
}

func parseArticleRef(operands []string) (articleRef, error) {
	if len(operands) < 3 {
		return articleRef{}, fmt.Errorf("%w: want 3 operands, got %d", ErrMalformedPayload, len(operands))
	}

	id, err := strconv.ParseInt(operands[0], 10, 64)
	if err != nil {
		return articleRef{}, fmt.Errorf("%w: article id %q", ErrMalformedPayload, operands[0])
	}

	seq, err := strconv.Atoi(operands[1])
	if err != nil || seq < 1 {
		return articleRef{}, fmt.Errorf("%w: sequence number %q", ErrMalformedPayload, operands[1])
	}

	role, err := storage.ParseRole(operands[2])
	if err != nil {
		return articleRef{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return articleRef{ID: id, Seq: seq, Role: role}, nil
}
