package routine

import "github.com/yungbote/solstice-backend/internal/types"

type Category string

const (
	CategoryYoga       Category = "yoga"
	CategoryMeditation Category = "meditation"
	CategoryPilates    Category = "pilates"
	CategoryCardio     Category = "cardio"
	CategoryStrength   Category = "strength"
	CategoryGeneral    Category = "general"
)

// categoryRules are checked in order against the lowercased prompt; the first
// category with a matching keyword wins. Cardio sits above strength so prompts
// like "HIIT ... strength" land on cardio.
var categoryRules = []struct {
	category Category
	keywords []string
}{
	{CategoryYoga, []string{"yoga", "vinyasa", "asana", "namaste", "downward dog"}},
	{CategoryMeditation, []string{"meditat", "mindful", "breathwork", "relax", "calm"}},
	{CategoryPilates, []string{"pilates", "reformer"}},
	{CategoryCardio, []string{"cardio", "hiit", "interval", "sprint", "running", "aerobic", "conditioning"}},
	{CategoryStrength, []string{"strength", "weight", "lifting", "dumbbell", "barbell", "muscle", "resistance"}},
}

var categorySuffixes = map[Category]string{
	CategoryYoga:       "Yoga Flow",
	CategoryMeditation: "Meditation Session",
	CategoryPilates:    "Pilates Session",
	CategoryCardio:     "Cardio Workout",
	CategoryStrength:   "Strength Workout",
	CategoryGeneral:    "Routine",
}

type templateCue struct {
	label   string
	cueType types.CueType
}

type templateTag struct {
	name     string
	category types.TagCategory
}

type templateCard struct {
	title       string
	description string
	duration    int
	sets        int
	reps        int
	cues        []templateCue
	tags        []templateTag
}

// cardTemplates are the hand-authored per-category routines instantiated by
// GenerateFromPrompt. Each card is either duration-based or sets/reps-based.
var cardTemplates = map[Category][]templateCard{
	CategoryYoga: {
		{
			title: "Sun Salutation A", description: "Flow through a full round to warm the body.", duration: 120,
			cues: []templateCue{{"Move with your breath", types.CueTypeBreathing}, {"Lengthen through the spine", types.CueTypeForm}},
			tags: []templateTag{{"full body", types.TagCategoryBodyPart}, {"mobility", types.TagCategoryGoal}},
		},
		{
			title: "Warrior II Hold", description: "Hold each side, sinking into the front knee.", duration: 90,
			cues: []templateCue{{"Front knee over ankle", types.CueTypeForm}, {"Gaze over the front hand", types.CueTypeFocus}},
			tags: []templateTag{{"legs", types.TagCategoryBodyPart}},
		},
		{
			title: "Seated Forward Fold", description: "Fold slowly, keeping the back long.", duration: 90,
			cues: []templateCue{{"Hinge from the hips", types.CueTypeForm}, {"Soften with each exhale", types.CueTypeBreathing}},
			tags: []templateTag{{"hamstrings", types.TagCategoryBodyPart}},
		},
		{
			title: "Savasana", description: "Rest flat and let the practice settle.", duration: 180,
			cues: []templateCue{{"Release all effort", types.CueTypeGeneral}},
			tags: []templateTag{{"recovery", types.TagCategoryGoal}},
		},
	},
	CategoryMeditation: {
		{
			title: "Settling In", description: "Find a comfortable seat and close the eyes.", duration: 60,
			cues: []templateCue{{"Sit tall but relaxed", types.CueTypeForm}},
			tags: []templateTag{{"calm", types.TagCategoryGoal}},
		},
		{
			title: "Breath Counting", description: "Count breaths from one to ten and repeat.", duration: 300,
			cues: []templateCue{{"Inhale through the nose", types.CueTypeBreathing}, {"Begin again when you wander", types.CueTypeFocus}},
			tags: []templateTag{{"breath", types.TagCategoryFocus}},
		},
		{
			title: "Body Scan", description: "Sweep attention slowly from head to toe.", duration: 240,
			cues: []templateCue{{"Notice without judging", types.CueTypeFocus}},
			tags: []templateTag{{"awareness", types.TagCategoryFocus}},
		},
	},
	CategoryPilates: {
		{
			title: "The Hundred", description: "Classic warm-up with pumping arms.", duration: 90,
			cues: []templateCue{{"Curl the head and shoulders up", types.CueTypeForm}, {"Five counts in, five counts out", types.CueTypeBreathing}},
			tags: []templateTag{{"core", types.TagCategoryBodyPart}},
		},
		{
			title: "Roll Up", sets: 3, reps: 8, description: "Articulate the spine one vertebra at a time.",
			cues: []templateCue{{"Peel off the mat slowly", types.CueTypeTempo}},
			tags: []templateTag{{"core", types.TagCategoryBodyPart}},
		},
		{
			title: "Single Leg Stretch", sets: 3, reps: 10, description: "Switch legs while keeping the torso still.",
			cues: []templateCue{{"Keep the low back anchored", types.CueTypeForm}},
			tags: []templateTag{{"core", types.TagCategoryBodyPart}},
		},
		{
			title: "Swan Prep", sets: 2, reps: 8, description: "Gentle back extension to finish.",
			cues: []templateCue{{"Lead with the chest", types.CueTypeForm}},
			tags: []templateTag{{"back", types.TagCategoryBodyPart}},
		},
	},
	CategoryCardio: {
		{
			title: "Dynamic Warm-Up", description: "Easy movement to raise the heart rate.", duration: 180,
			cues: []templateCue{{"Start light and loosen up", types.CueTypeIntensity}},
			tags: []templateTag{{"warm-up", types.TagCategoryGoal}},
		},
		{
			title: "High Knees", description: "Drive the knees up at a fast pace.", duration: 45,
			cues: []templateCue{{"Stay on the balls of your feet", types.CueTypeForm}, {"Pump the arms", types.CueTypeTempo}},
			tags: []templateTag{{"legs", types.TagCategoryBodyPart}, {"endurance", types.TagCategoryGoal}},
		},
		{
			title: "Burpees", sets: 4, reps: 10, description: "Full-body burst, chest to the floor each rep.",
			cues: []templateCue{{"Land softly", types.CueTypeForm}, {"Exhale on the jump", types.CueTypeBreathing}},
			tags: []templateTag{{"full body", types.TagCategoryBodyPart}},
		},
		{
			title: "Mountain Climbers", description: "Fast alternating knee drives in plank.", duration: 45,
			cues: []templateCue{{"Hips level with shoulders", types.CueTypeForm}},
			tags: []templateTag{{"core", types.TagCategoryBodyPart}},
		},
		{
			title: "Cooldown Walk", description: "Bring the heart rate back down.", duration: 120,
			cues: []templateCue{{"Slow, deep breaths", types.CueTypeBreathing}},
			tags: []templateTag{{"recovery", types.TagCategoryGoal}},
		},
	},
	CategoryStrength: {
		{
			title: "Goblet Squat", sets: 4, reps: 8, description: "Hold a weight at the chest and squat to depth.",
			cues: []templateCue{{"Knees track over toes", types.CueTypeForm}, {"Brace before you descend", types.CueTypeIntensity}},
			tags: []templateTag{{"legs", types.TagCategoryBodyPart}, {"dumbbell", types.TagCategoryEquipment}},
		},
		{
			title: "Push-Up", sets: 4, reps: 10, description: "Full range, body in one line.",
			cues: []templateCue{{"Squeeze the glutes", types.CueTypeForm}, {"Lower with control", types.CueTypeTempo}},
			tags: []templateTag{{"chest", types.TagCategoryBodyPart}},
		},
		{
			title: "Bent-Over Row", sets: 4, reps: 10, description: "Hinge at the hips and pull to the ribs.",
			cues: []templateCue{{"Flat back throughout", types.CueTypeForm}},
			tags: []templateTag{{"back", types.TagCategoryBodyPart}, {"dumbbell", types.TagCategoryEquipment}},
		},
		{
			title: "Plank", description: "Hold a straight line from head to heels.", duration: 60,
			cues: []templateCue{{"Keep breathing steadily", types.CueTypeBreathing}},
			tags: []templateTag{{"core", types.TagCategoryBodyPart}},
		},
	},
	CategoryGeneral: {
		{
			title: "Warm-Up", description: "A few minutes of easy movement.", duration: 180,
			cues: []templateCue{{"Ease into it", types.CueTypeIntensity}},
			tags: []templateTag{{"warm-up", types.TagCategoryGoal}},
		},
		{
			title: "Main Block", description: "Work at a steady, sustainable effort.", duration: 600,
			cues: []templateCue{{"Keep good form over speed", types.CueTypeForm}},
			tags: []templateTag{{"full body", types.TagCategoryBodyPart}},
		},
		{
			title: "Cooldown", description: "Stretch and slow the breath.", duration: 180,
			cues: []templateCue{{"Long exhales", types.CueTypeBreathing}},
			tags: []templateTag{{"recovery", types.TagCategoryGoal}},
		},
	},
}
