package quiz

// defaultPackYAML ships with the binary so the quiz works before the user
// drops any packs into their packs directory.
const defaultPackYAML = `id: starter
name: Starter Trivia
questions:
  - prompt: How many sides does a standard die have?
    choices: ["4", "6", "8", "12"]
    answer: 1
    category: games
  - prompt: Which planet is closest to the sun?
    choices: [Venus, Earth, Mercury, Mars]
    answer: 2
    category: space
  - prompt: What does CPU stand for?
    choices:
      - Central Processing Unit
      - Computer Personal Unit
      - Central Program Utility
      - Core Processor Unit
    answer: 0
    category: computing
  - prompt: How many tetromino shapes are there in classic Tetris?
    choices: ["5", "6", "7", "8"]
    answer: 2
    category: games
  - prompt: Which ocean is the largest?
    choices: [Atlantic, Indian, Arctic, Pacific]
    answer: 3
    category: geography
  - prompt: What is the chemical symbol for gold?
    choices: [Go, Gd, Au, Ag]
    answer: 2
    category: science
  - prompt: How many minutes are in a full day?
    choices: ["1440", "1200", "1600", "1000"]
    answer: 0
    category: numbers
  - prompt: Which of these is a prime number?
    choices: ["21", "33", "37", "39"]
    answer: 2
    category: numbers
  - prompt: What color do you get mixing blue and yellow paint?
    choices: [Purple, Green, Orange, Brown]
    answer: 1
    category: art
  - prompt: How many pieces does each chess player start with?
    choices: ["12", "14", "16", "18"]
    answer: 2
    category: games
`
