package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"wordle-tracker/feature/wordle/models"
)

// ErrNotApplicable marks messages that are not result announcements at all
// (other bot chatter, recap posts, grid-only shares). It is expected and
// silent; callers skip the message without logging an error.
var ErrNotApplicable = errors.New("not a wordle result announcement")

// Reason classifies why a message that looked like a result announcement
// could not be parsed.
type Reason string

const (
	// ReasonMissingPuzzleNumber means the header carried no parsable puzzle number.
	ReasonMissingPuzzleNumber Reason = "missing_puzzle_number"
	// ReasonBadAttempts means the attempts token was not a digit 1-6 or X.
	ReasonBadAttempts Reason = "bad_attempts"
	// ReasonAmbiguous means the message carried multiple headers that disagree.
	ReasonAmbiguous Reason = "ambiguous"
	// ReasonMissingIdentity means the message envelope lacked an author or
	// message identifier, so the result cannot be keyed.
	ReasonMissingIdentity Reason = "missing_identity"
)

// ParseError reports a malformed result announcement. It is logged and the
// message is skipped; it is never fatal.
type ParseError struct {
	Reason Reason
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("wordle parse error (%s): %s", e.Reason, e.Detail)
}

// headerPattern matches the announcement header "Wordle <number> <attempts>/6"
// with an optional hard-mode star. The puzzle number group is optional and
// the attempts group is deliberately loose (any digit run or X) so that
// malformed headers are detected as parse errors instead of silently ignored.
// Surrounding emoji, markdown and grid lines fall outside the match.
var headerPattern = regexp.MustCompile(`(?i)\bWordle\s*#?\s*([0-9][0-9,.]*)?\s*([0-9Xx]+)/6(\*?)`)

// Parse turns one raw announcement message into a structured puzzle result.
//
// It returns ErrNotApplicable for messages without any recognizable header
// shape, and a *ParseError when the message looks like an announcement but a
// required field is absent, out of range, or ambiguous. Parse has no side
// effects and never consults external state.
func Parse(msg models.Message) (*models.PuzzleResult, error) {
	matches := headerPattern.FindAllStringSubmatch(msg.Content, -1)
	if len(matches) == 0 {
		return nil, ErrNotApplicable
	}

	if msg.AuthorID == "" || msg.ID == "" {
		return nil, &ParseError{Reason: ReasonMissingIdentity, Detail: "announcement has no author or message identifier"}
	}

	var result *models.PuzzleResult
	for _, m := range matches {
		puzzle, attempts, hardMode, err := parseHeader(m)
		if err != nil {
			return nil, err
		}

		candidate := &models.PuzzleResult{
			UserID:          msg.AuthorID,
			PuzzleNumber:    puzzle,
			Attempts:        attempts,
			HardMode:        hardMode,
			SourceMessageID: msg.ID,
			PlayedAt:        msg.Timestamp,
		}

		if result != nil && !sameHeader(result, candidate) {
			return nil, &ParseError{
				Reason: ReasonAmbiguous,
				Detail: fmt.Sprintf("conflicting headers for puzzles %d and %d", result.PuzzleNumber, candidate.PuzzleNumber),
			}
		}
		result = candidate
	}

	return result, nil
}

// parseHeader validates one header match and extracts its fields.
func parseHeader(m []string) (puzzle, attempts int, hardMode bool, err error) {
	rawNumber, rawAttempts, star := m[1], m[2], m[3]

	if rawNumber == "" {
		return 0, 0, false, &ParseError{Reason: ReasonMissingPuzzleNumber, Detail: "header has no puzzle number"}
	}

	// Thousands separators vary by locale ("1,234" or "1.234").
	cleaned := strings.NewReplacer(",", "", ".", "").Replace(rawNumber)
	puzzle, convErr := strconv.Atoi(cleaned)
	if convErr != nil || puzzle < 0 {
		return 0, 0, false, &ParseError{Reason: ReasonMissingPuzzleNumber, Detail: fmt.Sprintf("unparsable puzzle number %q", rawNumber)}
	}

	attempts, err = parseAttempts(rawAttempts)
	if err != nil {
		return 0, 0, false, err
	}

	return puzzle, attempts, star == "*", nil
}

// parseAttempts maps the attempts token to 1-6 or the failed sentinel.
func parseAttempts(token string) (int, error) {
	if strings.EqualFold(token, "x") {
		return models.AttemptsFailed, nil
	}

	if len(token) == 1 {
		if n := int(token[0] - '0'); n >= 1 && n <= models.MaxAttempts {
			return n, nil
		}
	}

	return 0, &ParseError{Reason: ReasonBadAttempts, Detail: fmt.Sprintf("attempts token %q is not 1-6 or X", token)}
}

// sameHeader reports whether two parsed headers carry identical fields, so a
// message repeating the same header (quote + share) still parses cleanly.
func sameHeader(a, b *models.PuzzleResult) bool {
	return a.PuzzleNumber == b.PuzzleNumber && a.SameDerived(*b)
}
