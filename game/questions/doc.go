// Package questions supplies trivia questions to the maze engine.
//
// A Bank holds questions in memory and satisfies both engine.QuestionProvider
// (drawing questions for new passages) and engine.QuestionCatalog (resolving
// saved question IDs on restore). Banks are built from Records, which come
// from YAML bank files or from a MongoDB collection through MongoStore.
//
// Bank file layout:
//
//	name: general
//	questions:
//	  - kind: true_false
//	    prompt: The Pacific is the largest ocean.
//	    answer: "true"
//	  - kind: multiple_choice
//	    prompt: Which planet is largest?
//	    answer: B
//	    choices: {A: Mars, B: Jupiter, C: Venus, D: Mercury}
//
// Records without an id get one derived from the prompt, so the same file
// always yields the same IDs and saved games keep resolving.
package questions
