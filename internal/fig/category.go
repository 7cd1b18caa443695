package fig

import "time"

// FIG age groups for aerobic gymnastics, decided by the athlete's age
// at the end of the competition year.
const (
	CategoryYouth  = "YOUTH"
	CategoryJunior = "JUNIOR"
	CategorySenior = "SENIOR"
)

func CategoryFor(birth time.Time, now time.Time) string {
	age := now.Year() - birth.Year()
	switch {
	case age >= 18:
		return CategorySenior
	case age >= 15:
		return CategoryJunior
	default:
		return CategoryYouth
	}
}
