package simcard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gregLibert/sim-card/pkg/iso7816"
)

// CommandPrefix starts every +CRSM request.
const CommandPrefix = "+CRSM="

// +CRSM command codes. They are the GSM 11.11 instruction bytes in decimal.
const (
	CmdReadBinary  = int(iso7816.INS_READ_BINARY)  // 176
	CmdReadRecord  = int(iso7816.INS_READ_RECORD)  // 178
	CmdGetResponse = int(iso7816.INS_GET_RESPONSE) // 192
)

// Each integer may be preceded by blanks and a sign. Trailing text after the
// fifth integer is ignored.
var commandPattern = regexp.MustCompile(`^\+CRSM=` + strings.Repeat(`\s*([+-]?\d+),`, 4) + `\s*([+-]?\d+)`)

// Command is a parsed "+CRSM=<cmd>,<file_id>,<p1>,<p2>,<p3>" request.
type Command struct {
	Code   int
	FileID int
	P1     int
	P2     int
	P3     int
}

// ParseCommand extracts the five integers of a +CRSM request.
func ParseCommand(text string) (Command, error) {
	m := commandPattern.FindStringSubmatch(text)
	if m == nil {
		return Command{}, fmt.Errorf("malformed command %q", text)
	}

	var fields [5]int
	for i := range fields {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Command{}, fmt.Errorf("malformed command %q: %w", text, err)
		}
		fields[i] = n
	}

	return Command{Code: fields[0], FileID: fields[1], P1: fields[2], P2: fields[3], P3: fields[4]}, nil
}

func (c Command) String() string {
	return fmt.Sprintf("%s%d,%d,%d,%d,%d", CommandPrefix, c.Code, c.FileID, c.P1, c.P2, c.P3)
}

// HandleCommand answers a +CRSM request with its response line. It never
// fails on well-formed input. text must start with "+CRSM=".
func (c *Card) HandleCommand(text string) string {
	return c.Handle(text).String()
}

// Handle is HandleCommand returning the structured response.
//
// A dynamic card parses and dispatches the request against its files. A
// static card, or a dynamic one given text it cannot parse, answers from the
// built-in table.
func (c *Card) Handle(text string) Response {
	if !strings.HasPrefix(text, CommandPrefix) {
		panic(fmt.Sprintf("simcard: command %q does not start with %q", text, CommandPrefix))
	}

	if c.Mode() == ModeDynamic {
		cmd, err := ParseCommand(text)
		if err == nil {
			return c.dispatch(cmd)
		}
		c.log.WithError(err).Debug("falling back to static answers")
	}

	return c.answerStatic(text)
}

func (c *Card) dispatch(cmd Command) Response {
	switch cmd.Code {
	case CmdGetResponse:
		return c.getResponse(cmd)
	case CmdReadBinary:
		return c.readBinary(cmd)
	case CmdReadRecord:
		return c.readRecord(cmd)
	default:
		c.log.WithField("command", cmd.Code).Debug("unsupported command")
		return RespFunctionNotSupport
	}
}

func (c *Card) readBinary(cmd Command) Response {
	f, err := c.store.Find(cmd.FileID)
	if err != nil {
		return RespFileNotFound
	}
	if cmd.P1 != 0 || cmd.P2 != 0 {
		return RespIncorrectParameters
	}
	d, ok := f.Contents.(Dedicated)
	if !ok {
		return RespFunctionNotSupport
	}
	if cmd.P3 > d.Size() {
		return RespWrongLength
	}

	payload, err := ReadDedicated(f)
	if err != nil {
		c.log.WithError(err).Debug("read binary failed")
		return RespExecutionError
	}
	return success(payload)
}

func (c *Card) readRecord(cmd Command) Response {
	f, err := c.store.Find(cmd.FileID)
	if err != nil {
		return RespFileNotFound
	}
	if cmd.P2 != int(iso7816.RecordAbsolute) || cmd.P1 <= 0 {
		return RespIncorrectParameters
	}
	rec, ok := recordGeometry(f)
	if !ok {
		return RespFunctionNotSupport
	}
	if cmd.P1 > rec.Count {
		return RespRecordNotFound
	}
	if cmd.P3 > rec.Length {
		return RespWrongLength
	}

	payload, err := ReadRecord(f, cmd.P1)
	if err != nil {
		c.log.WithError(err).Debug("read record failed")
		return RespExecutionError
	}
	return success(payload)
}

func (c *Card) getResponse(cmd Command) Response {
	f, err := c.store.Find(cmd.FileID)
	if err != nil {
		return RespFileNotFound
	}
	if cmd.P1 != 0 || cmd.P2 != 0 || cmd.P3 != DescriptorLength {
		return RespIncorrectParameters
	}

	payload, err := EncodeDescriptor(f)
	if err != nil {
		c.log.WithError(err).Debug("descriptor encoding failed")
		return RespExecutionError
	}
	return success(payload)
}
