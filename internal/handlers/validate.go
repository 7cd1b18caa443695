package handlers

// Explicit per-entity validation, one function per request type. Each
// returns field-level errors keyed by the JSON field name; an empty
// map means the payload is acceptable.

const countryLen = 3

// GymnastCounts maps a choreography type to its required team size.
var GymnastCounts = map[string]int{
	"MIND": 1, // men's individual
	"WIND": 1, // women's individual
	"MXP":  2, // mixed pair
	"TRIO": 3,
	"GRP":  5,
	"DNCE": 8,
}

var coachLevels = map[string]bool{
	"L1": true, "L2": true, "L3": true, "LHB": true, "LBR": true,
}

var judgeCategories = map[string]bool{
	"1": true, "2": true, "3": true, "4": true,
}

var choreographyCategories = map[string]bool{
	"YOUTH": true, "JUNIOR": true, "SENIOR": true,
}

type choreographyRequest struct {
	Type       string `json:"type"`
	Country    string `json:"country"` // ignored, overwritten from claims
	Notes      string `json:"notes"`
	GymnastIDs []uint `json:"gymnast_ids"`
}

func validateChoreography(req *choreographyRequest) map[string]string {
	fields := map[string]string{}
	count, ok := GymnastCounts[req.Type]
	if !ok {
		fields["type"] = "must be one of MIND, WIND, MXP, TRIO, GRP, DNCE"
	} else if len(req.GymnastIDs) != count {
		fields["gymnast_ids"] = "type requires a different number of gymnasts"
	}
	return fields
}

type coachRequest struct {
	FigID     string `json:"fig_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	Country   string `json:"country"` // ignored, overwritten from claims
	Level     string `json:"level"`
}

func validateCoach(req *coachRequest) map[string]string {
	fields := map[string]string{}
	if req.FigID == "" {
		fields["fig_id"] = "required"
	}
	if req.FirstName == "" {
		fields["first_name"] = "required"
	}
	if req.LastName == "" {
		fields["last_name"] = "required"
	}
	if !coachLevels[req.Level] {
		fields["level"] = "must be one of L1, L2, L3, LHB, LBR"
	}
	return fields
}

type judgeRequest struct {
	FigID     string `json:"fig_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	Country   string `json:"country"` // ignored, overwritten from claims
	Category  string `json:"category"`
}

func validateJudge(req *judgeRequest) map[string]string {
	fields := map[string]string{}
	if req.FigID == "" {
		fields["fig_id"] = "required"
	}
	if req.FirstName == "" {
		fields["first_name"] = "required"
	}
	if req.LastName == "" {
		fields["last_name"] = "required"
	}
	if !judgeCategories[req.Category] {
		fields["category"] = "must be 1, 2, 3 or 4"
	}
	return fields
}

type supportStaffRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Country   string `json:"country"` // ignored, overwritten from claims
}

func validateSupportStaff(req *supportStaffRequest) map[string]string {
	fields := map[string]string{}
	if req.FirstName == "" {
		fields["first_name"] = "required"
	}
	if req.LastName == "" {
		fields["last_name"] = "required"
	}
	if req.Role == "" {
		fields["role"] = "required"
	}
	return fields
}

type tournamentRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Location    string `json:"location"`
}

func validateTournament(req *tournamentRequest) map[string]string {
	fields := map[string]string{}
	if req.Name == "" {
		fields["name"] = "required"
	}
	if req.Type != "CAMPEONATO_PANAMERICANO" && req.Type != "COPA_PANAMERICANA" {
		fields["type"] = "must be CAMPEONATO_PANAMERICANO or COPA_PANAMERICANA"
	}
	if req.StartDate == "" {
		fields["start_date"] = "required"
	}
	if req.EndDate == "" {
		fields["end_date"] = "required"
	}
	return fields
}
