package team

import (
	"sort"
	"strings"
)

// Franchise identifies one NBA team by its canonical three-letter code.
type Franchise struct {
	Code     string
	City     string
	Nickname string
}

var franchises = []Franchise{
	{Code: "ATL", City: "Atlanta", Nickname: "Hawks"},
	{Code: "BOS", City: "Boston", Nickname: "Celtics"},
	{Code: "BKN", City: "Brooklyn", Nickname: "Nets"},
	{Code: "CHA", City: "Charlotte", Nickname: "Hornets"},
	{Code: "CHI", City: "Chicago", Nickname: "Bulls"},
	{Code: "CLE", City: "Cleveland", Nickname: "Cavaliers"},
	{Code: "DAL", City: "Dallas", Nickname: "Mavericks"},
	{Code: "DEN", City: "Denver", Nickname: "Nuggets"},
	{Code: "DET", City: "Detroit", Nickname: "Pistons"},
	{Code: "GSW", City: "Golden State", Nickname: "Warriors"},
	{Code: "HOU", City: "Houston", Nickname: "Rockets"},
	{Code: "IND", City: "Indiana", Nickname: "Pacers"},
	{Code: "LAC", City: "LA", Nickname: "Clippers"},
	{Code: "LAL", City: "Los Angeles", Nickname: "Lakers"},
	{Code: "MEM", City: "Memphis", Nickname: "Grizzlies"},
	{Code: "MIA", City: "Miami", Nickname: "Heat"},
	{Code: "MIL", City: "Milwaukee", Nickname: "Bucks"},
	{Code: "MIN", City: "Minnesota", Nickname: "Timberwolves"},
	{Code: "NOP", City: "New Orleans", Nickname: "Pelicans"},
	{Code: "NYK", City: "New York", Nickname: "Knicks"},
	{Code: "OKC", City: "Oklahoma City", Nickname: "Thunder"},
	{Code: "ORL", City: "Orlando", Nickname: "Magic"},
	{Code: "PHI", City: "Philadelphia", Nickname: "76ers"},
	{Code: "PHX", City: "Phoenix", Nickname: "Suns"},
	{Code: "POR", City: "Portland", Nickname: "Trail Blazers"},
	{Code: "SAC", City: "Sacramento", Nickname: "Kings"},
	{Code: "SAS", City: "San Antonio", Nickname: "Spurs"},
	{Code: "TOR", City: "Toronto", Nickname: "Raptors"},
	{Code: "UTA", City: "Utah", Nickname: "Jazz"},
	{Code: "WAS", City: "Washington", Nickname: "Wizards"},
}

// Feed variants seen across roster, score and odds providers.
var codeAliases = map[string]string{
	"UTAH":  "UTA",
	"GS":    "GSW",
	"NO":    "NOP",
	"NOR":   "NOP",
	"NY":    "NYK",
	"WSH":   "WAS",
	"PHO":   "PHX",
	"SA":    "SAS",
	"BRK":   "BKN",
	"BKLYN": "BKN",
	"CHO":   "CHA",
	"LA":    "LAC",
}

var (
	byCode map[string]Franchise
	byName map[string]string
)

func init() {
	byCode = make(map[string]Franchise, len(franchises))
	byName = make(map[string]string, len(franchises)*3)
	for _, f := range franchises {
		byCode[f.Code] = f
		byName[strings.ToLower(f.City+" "+f.Nickname)] = f.Code
		byName[strings.ToLower(f.Nickname)] = f.Code
	}
	byName["los angeles clippers"] = "LAC"
}

// Normalize maps a team abbreviation, feed variant or full franchise name to
// the canonical three-letter code. Unknown values are returned upper-cased.
func Normalize(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}

	upper := strings.ToUpper(value)
	if _, ok := byCode[upper]; ok {
		return upper
	}
	if code, ok := codeAliases[upper]; ok {
		return code
	}
	if code, ok := byName[strings.ToLower(value)]; ok {
		return code
	}

	return upper
}

// Known reports whether code is one of the thirty canonical codes.
func Known(code string) bool {
	_, ok := byCode[code]
	return ok
}

// Lookup returns the franchise for a canonical or variant code.
func Lookup(raw string) (Franchise, bool) {
	f, ok := byCode[Normalize(raw)]
	return f, ok
}

// All returns every canonical code in alphabetical order.
func All() []string {
	out := make([]string, 0, len(franchises))
	for _, f := range franchises {
		out = append(out, f.Code)
	}
	sort.Strings(out)
	return out
}
