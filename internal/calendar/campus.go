package calendar

import "strings"

// unknownCampusColor is used for rooms on a campus missing from the table
// and for activities without a room.
const unknownCampusColor = "11"

type campus struct {
	address string
	color   string
}

// campuses maps MyGES campus names to their address and the Google Calendar
// colour id used for their events. An empty colour keeps the calendar's
// default colour.
var campuses = map[string]campus{
	"NATION1":      {address: "242 rue du Faubourg Saint Antoine, 75012 Paris"},
	"NATION2":      {address: "220 rue du Faubourg Saint Antoine, 75012 Paris", color: "2"},
	"VOLTAIRE1":    {address: "1 rue Bouvier, 75011 Paris", color: "5"},
	"VOLTAIRE2":    {address: "20 rue Bouvier, 75011 Paris", color: "5"},
	"ERARD":        {address: "19-21 rue Erard, 75011 Paris", color: "4"},
	"BEAUGRENELLE": {address: "35 quai André Citroen 75015 Paris", color: "1"},
	"MONTSOURIS":   {address: "5 rue Lemaignan, 75014 Paris", color: "3"},
	"MONTROUGE":    {address: "11 rue Camille Pelletan, 92120 Montrouge", color: "6"},
	"JOURDAN":      {address: "6-10 bd Jourdan 75014 Paris", color: "7"},
	"VAUGIRARD":    {address: "273-277 rue de Vaugirard, 75012 Paris", color: "9"},
	"MAIN-D-OR":    {address: "8-14 Passage de la Main d'Or 75011 Paris", color: "8"},
}

// Campus returns the postal address and colour id of a campus. Names are
// matched case-insensitively. Unknown campuses have no address.
func Campus(name string) (address, colorID string) {
	c, ok := campuses[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return "", unknownCampusColor
	}
	return c.address, c.color
}
