package service

import (
	"studynova_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExplanationLevel(t *testing.T) {
	b := NewPromptBuilder()

	// 讲解层级比学生年级高一级
	assert.Equal(t, 9, b.ExplanationLevel(8))
	assert.Equal(t, 13, b.ExplanationLevel(12))

	// 年级未知时用默认层级
	assert.Equal(t, DefaultExplanationLevel, b.ExplanationLevel(0))
	assert.Equal(t, DefaultExplanationLevel, b.ExplanationLevel(-1))
}

func TestBuildExplanation(t *testing.T) {
	b := NewPromptBuilder()

	system, user := b.BuildExplanation(ExplainParams{
		Question:     "What is 2+2?",
		Answer:       "4",
		StudentClass: 6,
		Subject:      "Mathematics",
	})

	assert.Contains(t, system, "NCERT")
	assert.Contains(t, user, "Subject: Mathematics")
	assert.Contains(t, user, "Student class: 6")
	assert.Contains(t, user, "level of class 7")
	// 问题和答案原样进入提示词
	assert.Contains(t, user, "Question: What is 2+2?")
	assert.Contains(t, user, "Answer: 4")
	// 五条固定指令
	assert.Contains(t, user, "1. Give a clear step-by-step explanation")
	assert.Contains(t, user, "5. Explain why the answer is correct")
}

func TestBuildExplanationDefaults(t *testing.T) {
	b := NewPromptBuilder()

	_, user := b.BuildExplanation(ExplainParams{Question: "Q", Answer: "A"})
	assert.Contains(t, user, "Subject: General")
	assert.Contains(t, user, "Student class: not specified")
	assert.Contains(t, user, "level of class 10")
}

func TestBuildInteractiveHelp(t *testing.T) {
	b := NewPromptBuilder()

	system, user := b.BuildInteractiveHelp("How do I factor this?", model.HelpContext{
		Subject:  "Mathematics",
		Class:    "10",
		Chapter:  "Polynomials",
		Exercise: "2.3",
		Board:    "CBSE",
	})

	assert.Contains(t, system, "Nova")
	assert.Contains(t, system, "subject Mathematics")
	assert.Contains(t, system, "class 10")
	assert.Contains(t, system, "chapter Polynomials")
	assert.Contains(t, system, "exercise 2.3")
	assert.Contains(t, system, "CBSE board")
	assert.Equal(t, "How do I factor this?", user)
}

func TestBuildInteractiveHelpPartialContext(t *testing.T) {
	b := NewPromptBuilder()

	system, _ := b.BuildInteractiveHelp("help", model.HelpContext{Subject: "Physics"})
	assert.Contains(t, system, "subject Physics")
	assert.NotContains(t, system, "chapter")
}
