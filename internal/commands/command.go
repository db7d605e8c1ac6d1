package commands

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeDone     Type = "done"
	TypeRemove   Type = "rm"
	TypeEdit     Type = "edit"
	TypeGenerate Type = "gen"
	TypeAugment  Type = "aug"
	TypeUnaug    Type = "unaug"
	TypeFeedback Type = "feedback"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs keeps hours and minutes as typed; the task store clamps them.
type AddArgs struct {
	Text    string
	Hours   string
	Minutes string
}

// IndexArgs addresses a list row by its 1-based position.
type IndexArgs struct {
	Index int
}

type AugmentArgs struct {
	Name string
	Time string
}

type FeedbackArgs struct {
	Text string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Index    *IndexArgs
	Augment  *AugmentArgs
	Feedback *FeedbackArgs
}

var durationToken = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?$`)

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeRemove, TypeEdit, TypeUnaug:
		return parseIndex(input, Type(head), args)
	case TypeGenerate:
		return Command{Type: TypeGenerate, Raw: input}, nil
	case TypeAugment:
		return parseAugment(input, args)
	case TypeFeedback:
		return parseFeedback(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd reads "add <text> [1h30m]". A trailing duration token is split
// off; without one the task has no duration.
func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{}
	if n := len(args); n > 1 {
		if m := durationToken.FindStringSubmatch(strings.ToLower(args[n-1])); m != nil && args[n-1] != "" {
			out.Hours, out.Minutes = m[1], m[2]
			args = args[:n-1]
		}
	}
	out.Text = strings.TrimSpace(strings.Join(args, " "))
	if out.Text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseIndex(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a row number", typ)}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid row number: %s", args[0])}
	}
	return Command{Type: typ, Raw: raw, Index: &IndexArgs{Index: n}}, nil
}

// parseAugment reads "aug <name> [@ <time>]".
func parseAugment(raw string, args []string) (Command, error) {
	joined := strings.Join(args, " ")
	name, at, _ := strings.Cut(joined, "@")
	name = strings.TrimSpace(name)
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "aug requires a task name"}
	}
	return Command{Type: TypeAugment, Raw: raw, Augment: &AugmentArgs{Name: name, Time: strings.TrimSpace(at)}}, nil
}

func parseFeedback(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "feedback requires text"}
	}
	return Command{Type: TypeFeedback, Raw: raw, Feedback: &FeedbackArgs{Text: text}}, nil
}
