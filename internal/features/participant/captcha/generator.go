// Package captcha generates and validates the math challenges gating
// first-time participation.
package captcha

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Generator produces simple math questions. Addition is weighted heaviest
// as the easiest form; multiplication operands are capped to keep the
// products small.
type Generator struct {
	minNumber int
	maxNumber int
}

func NewGenerator(minNumber, maxNumber int) *Generator {
	if minNumber < 1 {
		minNumber = 1
	}
	if maxNumber <= minNumber {
		maxNumber = minNumber + 9
	}
	return &Generator{
		minNumber: minNumber,
		maxNumber: maxNumber,
	}
}

// randBetween returns a uniform integer in [lo, hi].
func randBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rand.Intn(hi-lo+1)
}

// GenerateAddition generates an addition question.
func (g *Generator) GenerateAddition() (string, int) {
	a := randBetween(g.minNumber, g.maxNumber)
	b := randBetween(g.minNumber, g.maxNumber)
	return fmt.Sprintf("What is %d + %d?", a, b), a + b
}

// GenerateSubtraction generates a subtraction question with a guaranteed
// non-negative result.
func (g *Generator) GenerateSubtraction() (string, int) {
	lo := g.minNumber + 2
	if lo > g.maxNumber {
		lo = g.maxNumber
	}
	a := randBetween(lo, g.maxNumber)
	b := randBetween(g.minNumber, a-1)
	if b < g.minNumber {
		b = g.minNumber
	}
	return fmt.Sprintf("What is %d - %d?", a, b), a - b
}

// GenerateMultiplication generates a multiplication question with small
// operands (capped at min(5, maxNumber)).
func (g *Generator) GenerateMultiplication() (string, int) {
	maxMult := 5
	if g.maxNumber < maxMult {
		maxMult = g.maxNumber
	}
	a := randBetween(1, maxMult)
	b := randBetween(1, maxMult)
	return fmt.Sprintf("What is %d × %d?", a, b), a * b
}

// Generate picks a question type with weights 0.5 addition, 0.3 subtraction,
// 0.2 multiplication.
func (g *Generator) Generate() (string, int) {
	switch r := rand.Float64(); {
	case r < 0.5:
		return g.GenerateAddition()
	case r < 0.8:
		return g.GenerateSubtraction()
	default:
		return g.GenerateMultiplication()
	}
}

// ValidateAnswer checks a user-supplied answer against the expected value.
// Non-numeric input fails closed: it is a wrong answer, never an error.
func (g *Generator) ValidateAnswer(userAnswer string, correctAnswer int) bool {
	parsed, err := strconv.Atoi(strings.TrimSpace(userAnswer))
	if err != nil {
		return false
	}
	return parsed == correctAnswer
}
