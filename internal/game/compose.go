package game

import (
	"fmt"
	"strings"
)

// lifeStage buckets ages into the brackets the prompt is built around.
type lifeStage int

const (
	stageInfant lifeStage = iota // 0-4
	stageChild                   // 5-9
	stagePreteen                 // 10-14
	stageTeen                    // 15-19
	stageYoungAdult              // 20-24
	stageAdult                   // 25+
)

func stageFor(age int) lifeStage {
	switch {
	case age < 5:
		return stageInfant
	case age < 10:
		return stageChild
	case age < 15:
		return stagePreteen
	case age < 20:
		return stageTeen
	case age < 25:
		return stageYoungAdult
	default:
		return stageAdult
	}
}

// stageThemes holds five rotating themes per life stage. The theme for a turn
// is picked by InteractionCount so consecutive turns never share one.
var stageThemes = map[lifeStage][5]string{
	stageInfant: {
		"a first discovery of the world (sounds, colors, textures)",
		"a moment with a parent or sibling",
		"learning to walk or talk",
		"a small fright quickly comforted",
		"a first favorite toy or game",
	},
	stageChild: {
		"school life and learning",
		"friendship and playground conflicts",
		"a hobby or passion taking shape",
		"family routines and small responsibilities",
		"a moment of curiosity or mischief",
	},
	stagePreteen: {
		"fitting in with a peer group",
		"a growing talent or school subject",
		"first responsibilities at home",
		"a disagreement with parents",
		"discovering music, sport or games",
	},
	stageTeen: {
		"identity and self-image",
		"first romantic feelings",
		"academic pressure and orientation choices",
		"friendship loyalty being tested",
		"a first job or earning money",
	},
	stageYoungAdult: {
		"studies, work or career beginnings",
		"moving out and independence",
		"a serious relationship",
		"money management and first big purchases",
		"health and lifestyle choices",
	},
	stageAdult: {
		"career progression or reconversion",
		"family life and long-term commitments",
		"health, aging and self-care",
		"finances, property and security",
		"friendships, community and legacy",
	},
}

// stageExamples gives the model one concrete output example per stage. The
// tone of the example anchors the register of the generated scene.
var stageExamples = map[lifeStage]string{
	stageInfant: `{"healthChange": 0, "moneyChange": 0, "karmaChange": 1, "psychologicalProfile": ["curieux"], "message": "Tu découvres le carillon du salon, fasciné par ses reflets.", "question": {"text": "Que fais-tu ?", "options": [{"text": "Tendre la main pour le toucher", "effect": {"health": 0, "money": 0, "karma": 0, "social": 1}}, {"text": "Appeler maman en pointant du doigt", "effect": {"health": 0, "money": 0, "karma": 1, "social": 2}}]}}`,
	stageChild: `{"healthChange": 1, "moneyChange": 0, "karmaChange": 0, "psychologicalProfile": ["joueur"], "message": "À la récréation, un nouveau venu reste seul dans son coin.", "question": {"text": "Que fais-tu ?", "options": [{"text": "L'inviter à jouer au foot", "effect": {"health": 0, "money": 0, "karma": 3, "social": 4}}, {"text": "Rester avec ta bande habituelle", "effect": {"health": 0, "money": 0, "karma": -1, "social": 0}}]}}`,
	stagePreteen: `{"healthChange": 0, "moneyChange": -1, "karmaChange": 0, "psychologicalProfile": ["indépendant"], "message": "Tes amis veulent tous le même jeu vidéo, mais ton argent de poche est limité.", "question": {"text": "Que fais-tu ?", "options": [{"text": "Économiser pendant un mois", "effect": {"health": 0, "money": -5, "karma": 1, "social": 1}}, {"text": "Demander une avance à tes parents", "effect": {"health": 0, "money": 5, "karma": -1, "social": 0}}]}}`,
	stageTeen: `{"healthChange": -1, "moneyChange": 0, "karmaChange": 0, "psychologicalProfile": ["ambitieux"], "message": "Le bac approche et ton groupe d'amis propose une soirée la veille d'un examen blanc.", "question": {"text": "Que fais-tu ?", "options": [{"text": "Réviser et rater la soirée", "effect": {"health": 1, "money": 0, "karma": 1, "social": -3}}, {"text": "Sortir et improviser demain", "effect": {"health": -2, "money": -3, "karma": 0, "social": 4}}]}}`,
	stageYoungAdult: `{"healthChange": 0, "moneyChange": 2, "karmaChange": 0, "psychologicalProfile": ["déterminé"], "message": "Ton premier CDI te laisse peu de temps, mais un ami te propose de monter un projet ensemble.", "question": {"text": "Que fais-tu ?", "options": [{"text": "Garder la stabilité du salariat", "effect": {"health": 1, "money": 5, "karma": 0, "social": -1}}, {"text": "Tenter l'aventure entrepreneuriale", "effect": {"health": -2, "money": -8, "karma": 1, "social": 3}}]}}`,
	stageAdult: `{"healthChange": -1, "moneyChange": 1, "karmaChange": 0, "psychologicalProfile": ["réfléchi"], "message": "Une opportunité de mutation à l'étranger se présente, loin de ta famille.", "question": {"text": "Que fais-tu ?", "options": [{"text": "Accepter la mutation", "effect": {"health": 0, "money": 8, "karma": 0, "social": -4}}, {"text": "Refuser et rester proche des tiens", "effect": {"health": 1, "money": -2, "karma": 2, "social": 3}}]}}`,
}

var stageInstructions = map[lifeStage]string{
	stageInfant:     "The player is an infant (under 5). Scenes are tiny, sensory and innocent. Stakes are minimal, effects small. No money concerns beyond pocket-change symbolism.",
	stageChild:      "The player is a child (5-9). Scenes revolve around school, family and play. Keep language simple and consequences gentle.",
	stagePreteen:    "The player is a preteen (10-14). Introduce peer dynamics, small responsibilities and pocket money. Still no adult themes.",
	stageTeen:       "The player is a teenager (15-19). Identity, studies, first relationships and first earnings are in play. Consequences start to matter.",
	stageYoungAdult: "The player is a young adult (20-24). Career beginnings, independence, serious relationships and real money decisions.",
	stageAdult:      "The player is an adult (25+). Career, family, health and long-term consequences dominate. Scenes can be weighty.",
}

// Compose builds the full system prompt for one turn. It is deterministic:
// the same state and rules always produce the same prompt.
func Compose(s PlayerState, r Rules) string {
	stage := stageFor(s.Age)
	var b strings.Builder

	b.WriteString("You are the narrator of a life simulation game. Each turn you describe one short scene in the player's life and offer exactly two options.\n")
	b.WriteString("Write all player-facing text in French, in the second person.\n\n")

	fmt.Fprintf(&b, "Player: %s, %s, %d years old. Health %d/100, money %d, karma %d, social skills %d, intelligence %d. It is %s.\n\n",
		displayName(s), displayGender(s), s.Age, s.Health, s.Money, s.Karma, s.SocialSkills, s.Intelligence, s.TimeOfDay)

	b.WriteString(stageInstructions[stage])
	b.WriteString("\n\n")

	themes := stageThemes[stage]
	theme := themes[s.InteractionCount%len(themes)]
	fmt.Fprintf(&b, "Theme for this scene: %s.\n\n", theme)

	writeStatDirectives(&b, s)
	writeTraits(&b, s)
	writeMemories(&b, s)

	fmt.Fprintf(&b, "Example of a well-formed response for this life stage:\n%s\n\n", stageExamples[stage])

	b.WriteString("Respond with a single JSON object and nothing else. Required fields: healthChange, moneyChange, karmaChange (integers between -10 and 10), psychologicalProfile (array of short trait strings), message (the scene, in French), question (object with text and exactly 2 options, each option an object with text and effect {health, money, karma, social}).\n")
	b.WriteString("Never output more or fewer than 2 options. Never add fields outside the schema.")

	return b.String()
}

// writeStatDirectives emits steering paragraphs driven by the current stats.
// They only apply from the teen stage onward; younger scenes must stay
// innocent whatever the numbers say.
func writeStatDirectives(b *strings.Builder, s PlayerState) {
	if s.Age < 15 {
		return
	}
	before := b.Len()
	if s.Health <= 20 {
		b.WriteString("The player's health is fragile: let illness, exhaustion or recovery shape the scene, and make one option a chance to take care of themselves.\n")
	} else if s.Health >= 90 {
		b.WriteString("The player is in excellent health: physical challenges and endurance can be part of the scene.\n")
	}
	if s.Karma <= -30 {
		b.WriteString("The player's karma is low: one of the two options should tempt them down a morally questionable path, with honest short-term appeal.\n")
	} else if s.Karma >= 50 {
		b.WriteString("The player's karma is high: let their reputation for integrity open a door in this scene.\n")
	}
	if s.SocialSkills <= -30 {
		b.WriteString("The player struggles socially: weave isolation or awkwardness into the scene without mocking them.\n")
	} else if s.SocialSkills >= 50 {
		b.WriteString("The player is socially gifted: the scene can hinge on their network or charisma.\n")
	}
	if s.Money <= -1000 {
		b.WriteString("The player is in debt: financial pressure should color the scene and at least one option.\n")
	} else if s.Money >= 100_000 {
		b.WriteString("The player is wealthy: money opens options but invites new risks.\n")
	}
	if b.Len() > before {
		b.WriteString("\n")
	}
}

func writeTraits(b *strings.Builder, s PlayerState) {
	if len(s.Traits) == 0 {
		b.WriteString("The player's personality is not yet established; let this scene reveal a first trait.\n\n")
		return
	}
	fmt.Fprintf(b, "Psychological profile (oldest to newest): %s. Scenes and options should be consistent with it.\n\n", strings.Join(s.Traits, ", "))
}

func writeMemories(b *strings.Builder, s PlayerState) {
	if len(s.Memory) == 0 {
		b.WriteString("The player has no significant memories yet.\n\n")
		return
	}
	b.WriteString("Recent memories, most recent first:\n")
	for i := len(s.Memory) - 1; i >= 0; i-- {
		fmt.Fprintf(b, "- %s\n", s.Memory[i])
	}
	b.WriteString("Use memories for continuity only. Do not repeat or anchor the new scene on the latest event; vary topics.\n\n")
}

func displayName(s PlayerState) string {
	if s.Name == "" {
		return "the player"
	}
	return s.Name
}

func displayGender(s PlayerState) string {
	switch s.Gender {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return "unspecified"
	}
}
