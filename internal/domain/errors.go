package domain

import "errors"

var (
	// ErrInvalidQuestion is returned when a raw record cannot be normalized
	// into a canonical Question.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrUnsupportedFormat indicates the import payload's top-level shape
	// is not one of the accepted forms.
	ErrUnsupportedFormat = errors.New("unsupported format: expected a list of questions")
	// ErrEmptyPool is returned when session creation finds no questions
	// matching the requested criteria.
	ErrEmptyPool = errors.New("no questions available for the selected criteria")
	// ErrNoActiveSession is returned when a submit or view hits a user
	// context without an in-flight test.
	ErrNoActiveSession = errors.New("no active test session")
	// ErrNoResults indicates no submitted results are held for the user.
	ErrNoResults = errors.New("no results to display")
)
