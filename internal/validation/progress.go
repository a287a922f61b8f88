package validation

import (
	"strings"

	"github.com/templui/skilledger/internal/model"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSkillLength  = 100
	maxCourseLength = 200
	maxNoteLength   = 2000
	// A session belongs to one calendar day.
	maxSessionMinutes = 24 * 60
)

// NormalizeSkill trims the name and converts it to Unicode NFC so that
// visually identical names address the same progress record.
func NormalizeSkill(skill string) string {
	return norm.NFC.String(strings.TrimSpace(skill))
}

func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return invalid("user_id", "user is required")
	}
	return nil
}

// ValidateSkill expects an already normalized name.
func ValidateSkill(skill string) error {
	if skill == "" {
		return invalid("skill", "skill is required")
	}

	if len([]rune(skill)) > maxSkillLength {
		return invalid("skill", "skill is too long (max 100 characters)")
	}

	return nil
}

func ValidateMinutes(minutes int) error {
	if minutes <= 0 {
		return invalid("minutes", "minutes must be greater than zero")
	}

	if minutes > maxSessionMinutes {
		return invalid("minutes", "a session cannot exceed 24 hours")
	}

	return nil
}

func ValidatePercentage(percentage int) error {
	if percentage < model.MinPercentage || percentage > model.MaxPercentage {
		return invalid("percentage", "percentage must be between 0 and 100")
	}
	return nil
}

func ValidateCourse(course string) error {
	if len([]rune(course)) > maxCourseLength {
		return invalid("course", "course name is too long (max 200 characters)")
	}
	return nil
}

func ValidateNote(note string) error {
	if len([]rune(note)) > maxNoteLength {
		return invalid("note", "note is too long (max 2000 characters)")
	}
	return nil
}
