package genre

import (
	"slices"
	"strings"
)

// Default is the tag given to titles no keyword recognises.
const Default = "adventure"

// keywords maps a tag to the title fragments that imply it. Fragments match as
// plain substrings of the lowercased title, so "rp" also hits "sharpshooter".
var keywords = map[string][]string{
	"shooter":      {"shooter", "fps", "gun", "arsenal", "phantom forces", "counter", "warfare"},
	"rpg":          {"rpg", "blox fruits", "quest", "leveling", "adventure quest"},
	"simulator":    {"simulator", "sim"},
	"tycoon":       {"tycoon", "factory", "empire", "business"},
	"obby":         {"obby", "parkour", "tower of hell", "tower", "climb"},
	"parkour":      {"parkour", "freerun", "climbing", "agility"},
	"horror":       {"horror", "scary", "doors", "piggy", "creepy", "haunted"},
	"roleplay":     {"roleplay", "rp", "brookhaven", "adopt me", "life"},
	"pvp":          {"pvp", "battle", "fighting", "combat", "arena", "versus", "duel"},
	"fighting":     {"fighting", "combat", "brawl", "punch", "martial arts", "boxing"},
	"social":       {"hangout", "social", "chat", "vibe", "chill", "lounge"},
	"adventure":    {"adventure", "journey", "explore", "travel"},
	"racing":       {"racing", "race", "speed", "drift", "car", "vehicle", "driving"},
	"sandbox":      {"sandbox", "build", "create", "construction"},
	"survival":     {"survival", "survive", "apocalypse", "zombie"},
	"sports":       {"sports", "football", "soccer", "basketball", "baseball"},
	"puzzle":       {"puzzle", "brain", "logic", "riddle"},
	"story-driven": {"story", "narrative", "tale", "chapter"},
	"mystery":      {"mystery", "detective", "investigation", "crime"},
	"comedy":       {"comedy", "funny", "meme", "laugh"},
	"co-op":        {"co-op", "coop", "cooperative", "team"},
	"music":        {"music", "rhythm", "beat", "dance", "dj"},
	"educational":  {"educational", "learn", "school", "teach"},
}

// Classify returns the sorted tags whose keywords occur in title, or
// []string{Default} when none do.
func Classify(title string) []string {
	lower := strings.ToLower(title)
	var tags []string
	for tag, words := range keywords {
		for _, w := range words {
			if strings.Contains(lower, w) {
				tags = append(tags, tag)
				break
			}
		}
	}
	if len(tags) == 0 {
		return []string{Default}
	}
	slices.Sort(tags)
	return tags
}

// Genre is one browseable entry of the catalog.
type Genre struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var catalog = []Genre{
	{Name: "RPG", Slug: "rpg", Icon: "sword", Color: "red-500"},
	{Name: "Simulator", Slug: "simulator", Icon: "cogwheel", Color: "blue-500"},
	{Name: "Parkour", Slug: "parkour", Icon: "trending-up", Color: "orange-500"},
	{Name: "Racing", Slug: "racing", Icon: "zap", Color: "yellow-500"},
	{Name: "Shooter", Slug: "shooter", Icon: "target", Color: "red-600"},
	{Name: "Story-Driven", Slug: "story-driven", Icon: "book", Color: "purple-500"},
	{Name: "Adventure", Slug: "adventure", Icon: "compass", Color: "cyan-500"},
	{Name: "Mystery", Slug: "mystery", Icon: "eye", Color: "indigo-500"},
	{Name: "Comedy", Slug: "comedy", Icon: "smile", Color: "pink-500"},
	{Name: "Horror", Slug: "horror", Icon: "ghost", Color: "slate-700"},
	{Name: "Co-op", Slug: "co-op", Icon: "users", Color: "green-500"},
	{Name: "PvP", Slug: "pvp", Icon: "swords", Color: "rose-500"},
	{Name: "Sandbox", Slug: "sandbox", Icon: "box", Color: "amber-500"},
	{Name: "Tycoon", Slug: "tycoon", Icon: "trending-up", Color: "emerald-500"},
	{Name: "Survival", Slug: "survival", Icon: "heart", Color: "lime-500"},
	{Name: "Fighting", Slug: "fighting", Icon: "fist", Color: "fuchsia-500"},
	{Name: "Sports", Slug: "sports", Icon: "basketball", Color: "sky-500"},
	{Name: "Music", Slug: "music", Icon: "music", Color: "violet-500"},
	{Name: "Puzzle", Slug: "puzzle", Icon: "hexagon", Color: "cyan-600"},
	{Name: "Educational", Slug: "educational", Icon: "graduation", Color: "blue-600"},
}

// List returns a copy of the browseable genre catalog in display order.
func List() []Genre {
	return slices.Clone(catalog)
}

// Lookup finds a catalog entry by slug or display name, ignoring case.
func Lookup(name string) (Genre, bool) {
	for _, g := range catalog {
		if strings.EqualFold(g.Slug, name) || strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	return Genre{}, false
}
