package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Done     func(IndexArgs) (Result, error)
	Remove   func(IndexArgs) (Result, error)
	Edit     func(IndexArgs) (Result, error)
	Generate func() (Result, error)
	Augment  func(AugmentArgs) (Result, error)
	Unaug    func(IndexArgs) (Result, error)
	Feedback func(FeedbackArgs) (Result, error)
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing("done")
		}
		return handlers.Done(*cmd.Index)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, missing("rm")
		}
		return handlers.Remove(*cmd.Index)
	case TypeEdit:
		if handlers.Edit == nil {
			return Result{}, missing("edit")
		}
		return handlers.Edit(*cmd.Index)
	case TypeGenerate:
		if handlers.Generate == nil {
			return Result{}, missing("gen")
		}
		return handlers.Generate()
	case TypeAugment:
		if handlers.Augment == nil {
			return Result{}, missing("aug")
		}
		return handlers.Augment(*cmd.Augment)
	case TypeUnaug:
		if handlers.Unaug == nil {
			return Result{}, missing("unaug")
		}
		return handlers.Unaug(*cmd.Index)
	case TypeFeedback:
		if handlers.Feedback == nil {
			return Result{}, missing("feedback")
		}
		return handlers.Feedback(*cmd.Feedback)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
