package domain

// DomainError represents a domain-specific error
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

var (
	ErrProjectNotFound     = NewDomainError("project not found")
	ErrRequirementNotFound = NewDomainError("requirement not found")
	ErrTestCaseNotFound    = NewDomainError("test case not found")
	ErrNoRequirements      = NewDomainError("no requirements found for project")
	ErrEmptyIngest         = NewDomainError("provide either a file or raw text")
)
