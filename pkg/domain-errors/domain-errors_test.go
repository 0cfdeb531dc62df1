package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// These are core error primitives used at every trust boundary. Unit tests
// ensure invariants like "wrapped domain errors preserve original code" and
// "errors.Is matches by code" are maintained.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Message: "consent record not found"}
		s.Equal("consent record not found", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeNotFound}
		s.Equal("not_found", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	s.Run("returns wrapped error", func() {
		inner := errors.New("database connection failed")
		err := &Error{Code: CodeInternal, Message: "service error", Err: inner}
		s.Equal(inner, err.Unwrap())
	})

	s.Run("works with errors.Unwrap", func() {
		inner := errors.New("root cause")
		err := &Error{Code: CodeInternal, Err: inner}
		s.Equal(inner, errors.Unwrap(err))
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		err1 := &Error{Code: CodeNotFound, Message: "record not found"}
		err2 := &Error{Code: CodeNotFound, Message: "entry not found"}
		s.True(err1.Is(err2))
	})

	s.Run("does not match different codes", func() {
		err1 := &Error{Code: CodeNotFound}
		err2 := &Error{Code: CodeInternal}
		s.False(err1.Is(err2))
	})
}

func (s *DomainErrorsSuite) TestWrapPreservesCode() {
	s.Run("wrapping a domain error keeps original code", func() {
		inner := New(CodeStorageFailure, "cookie write rejected")
		wrapped := Wrap(CodeInternal, "save consent", inner)
		s.True(HasCode(wrapped, CodeStorageFailure))
	})

	s.Run("wrapping a plain error uses provided code", func() {
		wrapped := Wrap(CodeInternal, "save consent", errors.New("boom"))
		s.True(HasCode(wrapped, CodeInternal))
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.False(HasCode(errors.New("plain"), CodeInternal))
	s.True(HasCode(New(CodeForbidden, "bad token"), CodeForbidden))
}
