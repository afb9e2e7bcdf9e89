package localbase

import "github.com/rewardmaths/localbase/pkg/types"

// levelSeed is one row of the shipped level ladder.
type levelSeed struct {
	level       int
	operations  []string
	maxOperand  int
	tables      []int
	description string
}

// levelSeeds is the default 30-level ladder: foundation, times tables,
// division, mixed speed, mastery.
var levelSeeds = []levelSeed{
	{1, []string{"+"}, 10, nil, "Addition with numbers up to 10"},
	{2, []string{"+", "-"}, 10, nil, "Addition and subtraction up to 10"},
	{3, []string{"+", "-"}, 20, nil, "Addition and subtraction up to 20"},
	{4, []string{"+", "-"}, 20, []int{2, 5, 10}, "Add/subtract to 20, easy times tables"},
	{5, []string{"+", "-", "*"}, 20, []int{2, 5, 10}, "Mixed operations with easy tables"},
	{6, []string{"*"}, 12, []int{2, 3}, "Times tables: 2 and 3"},
	{7, []string{"*"}, 12, []int{2, 3, 4}, "Times tables: 2, 3, and 4"},
	{8, []string{"*"}, 12, []int{2, 3, 4, 5}, "Times tables: 2-5"},
	{9, []string{"*"}, 12, []int{2, 3, 4, 5, 6}, "Times tables: 2-6"},
	{10, []string{"*"}, 12, []int{2, 3, 4, 5, 6, 7}, "Times tables: 2-7"},
	{11, []string{"*"}, 12, []int{2, 3, 4, 5, 6, 7, 8}, "Times tables: 2-8"},
	{12, []string{"*"}, 12, []int{2, 3, 4, 5, 6, 7, 8, 9}, "Times tables: 2-9"},
	{13, []string{"*"}, 12, []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, "All times tables"},
	{14, []string{"/"}, 12, []int{2, 3, 4, 5}, "Division using tables 2-5"},
	{15, []string{"/", "*"}, 12, []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, "Division and multiplication"},
	{16, []string{"+", "-"}, 50, nil, "Add/subtract up to 50"},
	{17, []string{"+", "-"}, 100, nil, "Add/subtract up to 100"},
	{18, []string{"+", "-", "*"}, 50, []int{2, 3, 4, 5, 6}, "Mixed operations to 50"},
	{19, []string{"+", "-", "*", "/"}, 50, []int{2, 3, 4, 5, 6}, "All operations to 50"},
	{20, []string{"+", "-", "*", "/"}, 75, []int{2, 3, 4, 5, 6, 7, 8}, "All operations to 75"},
	{21, []string{"+", "-", "*", "/"}, 100, []int{2, 3, 4, 5, 6, 7, 8, 9}, "All operations to 100"},
	{22, []string{"+", "-", "*", "/"}, 100, []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, "Full range challenge"},
	{23, []string{"+", "-"}, 100, nil, "Speed: Add/subtract to 100"},
	{24, []string{"*", "/"}, 12, []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, "Speed: Multiply and divide"},
	{25, []string{"+", "-", "*", "/"}, 100, []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, "Advanced mixed"},
	{26, []string{"+", "-"}, 100, nil, "Mastery: Mental arithmetic"},
	{27, []string{"*"}, 12, []int{6, 7, 8, 9, 11, 12}, "Mastery: Hard times tables"},
	{28, []string{"/"}, 12, []int{6, 7, 8, 9, 11, 12}, "Mastery: Hard division"},
	{29, []string{"+", "-", "*", "/"}, 100, []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, "Mastery: Random mix"},
	{30, []string{"+", "-", "*", "/"}, 100, []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, "CHAMPION LEVEL"},
}

// childSeed is one default player profile.
type childSeed struct {
	username    string
	displayName string
	emoji       string
}

var childSeeds = []childSeed{
	{"tom", "Tom", "🦖"},
	{"patrick", "Patrick", "🙂"},
	{"eliza", "Eliza", "🌸"},
}

// Seed populates first-run defaults: the level ladder when level_configs is
// empty, and an administrator plus three player profiles when profiles is
// empty. Idempotent; tables that already hold rows are left alone.
func (c *Client) Seed() error {
	configs, err := c.store.GetAll(types.TableLevelConfigs)
	if err != nil {
		return err
	}
	if len(configs) == 0 {
		if err := c.seedLevelConfigs(); err != nil {
			return err
		}
	}

	profiles, err := c.store.GetAll(types.TableProfiles)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		if err := c.seedDefaultProfiles(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) seedLevelConfigs() error {
	for _, seed := range levelSeeds {
		tables := seed.tables
		if tables == nil {
			tables = []int{}
		}
		rec := types.Record{
			"level":                 seed.level,
			"operations":            seed.operations,
			"max_operand":           seed.maxOperand,
			"multiplication_tables": tables,
			"description":           seed.description,
			"is_active":             true,
		}
		if err := c.store.Put(types.TableLevelConfigs, rec); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) seedDefaultProfiles() error {
	stamp := c.timestamp()

	admin := types.Record{
		"id":                newProfileID(),
		"email":             "admin@rewardmaths.local",
		"username":          "admin",
		"display_name":      "Admin",
		"password_hash":     HashPassword("admin123"),
		"current_level":     1,
		"is_admin":          true,
		"high_score_streak": 0,
		"low_score_streak":  0,
		"avatar_emoji":      "👑",
		"reward_theme":      "default",
		"created_at":        stamp,
		"updated_at":        stamp,
	}
	if err := c.store.Add(types.TableProfiles, admin); err != nil {
		return err
	}

	for _, child := range childSeeds {
		profile := types.Record{
			"id":                newProfileID(),
			"email":             child.username + "@local",
			"username":          child.username,
			"display_name":      child.displayName,
			"password_hash":     nil,
			"current_level":     1,
			"is_admin":          false,
			"high_score_streak": 0,
			"low_score_streak":  0,
			"avatar_emoji":      child.emoji,
			"reward_theme":      "default",
			"created_at":        stamp,
			"updated_at":        stamp,
		}
		if err := c.store.Add(types.TableProfiles, profile); err != nil {
			return err
		}
	}
	return nil
}
