package synth

import (
	"fmt"
	"strings"

	"github.com/ilearnhow/lessonsynth/internal/params"
)

// questionFrame is a two-choice question template. Question and choices may
// reference the topic with %[1]s.
type questionFrame struct {
	question string
	choices  [2]string
	feedback [2]string
}

// ageFrame holds the topic frames used when no DNA exists and generation
// is unavailable.
type ageFrame struct {
	hook           string
	context        string
	objective      string
	examplePrefix  string
	defaultExample string
	questions      [QuestionCount]questionFrame
	summary        string
	reflection     string
}

var ageFrames = map[params.AgeBucket]ageFrame{
	params.EarlyChildhood: {
		hook:           "Today we get to learn about %[1]s!",
		context:        "Let's look at %[1]s together, one little step at a time.",
		objective:      "Our goal today: %[2]s.",
		examplePrefix:  "Think about: ",
		defaultExample: "You can find %[1]s in the world all around you.",
		questions: [QuestionCount]questionFrame{
			{"What do you think about %[1]s?", [2]string{"It's amazing!", "I want to know more!"},
				[2]string{"Yes! %[1]s is amazing!", "Me too! Let's find out more about %[1]s!"}},
			{"Have you seen %[1]s before?", [2]string{"Yes, I have!", "Not yet!"},
				[2]string{"Sharp eyes! Tell a grown-up where you saw it.", "That's okay! Now you know about %[1]s."}},
			{"Can we learn more about %[1]s tomorrow?", [2]string{"Yes, please!", "Let's learn today!"},
				[2]string{"Hooray! Learning is fun!", "You love to learn! That's wonderful!"}},
		},
		summary:    "You learned something amazing about %[1]s!",
		reflection: "What was your favorite part about %[1]s?",
	},
	params.Youth: {
		hook:           "Get ready to discover %[1]s!",
		context:        "Let's explore %[1]s together and see how it works.",
		objective:      "Today's mission: %[2]s.",
		examplePrefix:  "For example: ",
		defaultExample: "%[1]s shows up in places you might not expect.",
		questions: [QuestionCount]questionFrame{
			{"What do you think about %[1]s?", [2]string{"It's really interesting", "I have questions about it"},
				[2]string{"Nice! Curiosity is how discoveries start.", "Questions are great. Keep asking them!"}},
			{"Where could you notice %[1]s in your day?", [2]string{"At home or at school", "Outside in nature"},
				[2]string{"Good thinking! It's closer than you think.", "Yes! Nature is full of examples."}},
			{"How would you explain %[1]s to a friend?", [2]string{"Use a simple example", "Draw a picture"},
				[2]string{"Examples make ideas easy to share.", "Pictures help everyone understand!"}},
		},
		summary:    "You've learned something amazing about %[1]s!",
		reflection: "What surprised you most about %[1]s?",
	},
	params.YoungAdult: {
		hook:           "Let's dig into %[1]s.",
		context:        "We'll look at how %[1]s works and why it matters.",
		objective:      "Objective: %[2]s.",
		examplePrefix:  "Consider this: ",
		defaultExample: "%[1]s connects to choices you make every day.",
		questions: [QuestionCount]questionFrame{
			{"What stands out to you about %[1]s?", [2]string{"How it works", "Why it matters"},
				[2]string{"Understanding the mechanism gives you real leverage.", "Knowing why keeps you motivated to learn more."}},
			{"How does %[1]s connect to your goals?", [2]string{"It's directly relevant", "It broadens my perspective"},
				[2]string{"Then it is worth mastering.", "Breadth is a strength. Keep collecting ideas."}},
			{"What would you explore next about %[1]s?", [2]string{"The science behind it", "Its impact on people"},
				[2]string{"Going deeper builds real expertise.", "Human impact is where ideas come alive."}},
		},
		summary:    "You now have a clearer picture of %[1]s.",
		reflection: "How might %[1]s shape the way you think this week?",
	},
	params.Midlife: {
		hook:           "Today's focus is %[1]s.",
		context:        "We'll connect %[1]s to work, family and daily decisions.",
		objective:      "Today's aim: %[2]s.",
		examplePrefix:  "A practical example: ",
		defaultExample: "%[1]s plays a role in decisions you make at work and at home.",
		questions: [QuestionCount]questionFrame{
			{"Where does %[1]s show up in your life?", [2]string{"In my work", "In my family life"},
				[2]string{"Seeing it at work makes the idea immediately useful.", "Family is often where ideas matter most."}},
			{"How could you apply what you know about %[1]s?", [2]string{"Make a small change this week", "Share it with someone"},
				[2]string{"Small changes add up over time.", "Teaching others deepens your own understanding."}},
			{"What would help you understand %[1]s better?", [2]string{"More real-world cases", "The underlying principles"},
				[2]string{"Cases turn ideas into experience.", "Principles help you reason about unfamiliar situations."}},
		},
		summary:    "You've added a useful perspective on %[1]s.",
		reflection: "How will %[1]s influence one decision you make soon?",
	},
	params.WisdomYears: {
		hook:           "Let's reflect together on %[1]s.",
		context:        "We'll consider %[1]s in light of a lifetime of experience.",
		objective:      "Today we reflect on this aim: %[2]s.",
		examplePrefix:  "Reflect on this: ",
		defaultExample: "%[1]s has touched your life in ways worth remembering.",
		questions: [QuestionCount]questionFrame{
			{"How has your view of %[1]s changed over the years?", [2]string{"It has grown deeper", "It has stayed steady"},
				[2]string{"Experience has a way of deepening understanding.", "Steady convictions are a source of strength."}},
			{"What would you pass on to others about %[1]s?", [2]string{"A story from my life", "A lesson I learned"},
				[2]string{"Stories carry wisdom across generations.", "Lessons shared become gifts to others."}},
			{"What still makes you curious about %[1]s?", [2]string{"What remains unknown", "How others see it"},
				[2]string{"Curiosity keeps the mind young.", "Other perspectives enrich our own."}},
		},
		summary:    "You've brought your experience to %[1]s today.",
		reflection: "What memory does %[1]s bring to mind?",
	},
}

// toneFrame holds the tone-specific parts of the deterministic fallback.
type toneFrame struct {
	opener        string
	closer        string
	encouragement string
	fortune       string
}

var toneFrames = map[params.Tone]toneFrame{
	params.Grandmother: {
		opener:        "Hello!",
		closer:        "I'm so proud of you.",
		encouragement: "Take your time, dear one. Every question you ask makes you wiser.",
		fortune:       "A gentle heart and a curious mind will carry you far.",
	},
	params.Fun: {
		opener:        "Ready for an adventure?",
		closer:        "High five for learning!",
		encouragement: "Keep exploring and asking questions! Your brain is on fire!",
		fortune:       "Today your curiosity unlocks a hidden superpower!",
	},
	params.Neutral: {
		opener:        "Welcome.",
		closer:        "Well done.",
		encouragement: "Keep exploring and asking questions.",
		fortune:       "Your curiosity is your superpower. Keep learning and growing!",
	},
}

func frameFor(b params.AgeBucket) ageFrame {
	if f, ok := ageFrames[b]; ok {
		return f
	}
	return ageFrames[params.YoungAdult]
}

func toneFrameFor(t params.Tone) toneFrame {
	if f, ok := toneFrames[t]; ok {
		return f
	}
	return toneFrames[params.Neutral]
}

// fill formats a frame with the topic (%[1]s) and objective (%[2]s).
// Indexed verbs let a frame use either argument alone.
func fill(frame, topic, objective string) string {
	if !strings.Contains(frame, "%[") {
		return frame
	}
	return fmt.Sprintf(frame, topic, objective)
}
