package service

import (
	"fmt"
	"strings"
	"studynova_backend/internal/model"
)

// 两个端点的提示词曾经是各自手写的近似重复逻辑，容易漂移。
// 统一收口到 PromptBuilder，按模板名区分。

type PromptTemplate string

const (
	TemplateExplanation     PromptTemplate = "explanation"
	TemplateInteractiveHelp PromptTemplate = "interactive-help"
)

// DefaultExplanationLevel 未提供年级时的默认讲解层级
const DefaultExplanationLevel = 10

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// ExplanationLevel 讲解层级刻意比学生年级高一级
func (b *PromptBuilder) ExplanationLevel(studentClass int) int {
	if studentClass <= 0 {
		return DefaultExplanationLevel
	}
	return studentClass + 1
}

type ExplainParams struct {
	Question     string
	Answer       string
	StudentClass int
	Subject      string
}

// BuildExplanation 组装 "讲解答案" 模板，返回 system 与 user 两段
func (b *PromptBuilder) BuildExplanation(p ExplainParams) (string, string) {
	level := b.ExplanationLevel(p.StudentClass)
	subject := p.Subject
	if subject == "" {
		subject = "General"
	}
	class := "not specified"
	if p.StudentClass > 0 {
		class = fmt.Sprintf("%d", p.StudentClass)
	}

	system := "You are an expert NCERT tutor. You explain textbook answers to school students in clear, encouraging language."

	var sb strings.Builder
	fmt.Fprintf(&sb, "Subject: %s\n", subject)
	fmt.Fprintf(&sb, "Student class: %s\n", class)
	fmt.Fprintf(&sb, "Explain at the level of class %d.\n\n", level)
	fmt.Fprintf(&sb, "Question: %s\n", p.Question)
	fmt.Fprintf(&sb, "Answer: %s\n\n", p.Answer)
	sb.WriteString("Instructions:\n")
	sb.WriteString("1. Give a clear step-by-step explanation of the answer.\n")
	sb.WriteString("2. Simplify any complex parts.\n")
	sb.WriteString("3. Include relatable examples where helpful.\n")
	sb.WriteString("4. Highlight the key points to remember.\n")
	sb.WriteString("5. Explain why the answer is correct, not just what it is.\n")

	return system, sb.String()
}

// BuildInteractiveHelp 组装辅导对话模板，带教材上下文的导师人设
func (b *PromptBuilder) BuildInteractiveHelp(query string, hc model.HelpContext) (string, string) {
	var sb strings.Builder
	sb.WriteString("You are Nova, a friendly and patient study tutor. ")
	sb.WriteString("Answer the student's question in a conversational tone, guide them step by step, and encourage them to think for themselves.")

	var parts []string
	if hc.Subject != "" {
		parts = append(parts, "subject "+hc.Subject)
	}
	if hc.Class != "" {
		parts = append(parts, "class "+hc.Class)
	}
	if hc.Chapter != "" {
		parts = append(parts, "chapter "+hc.Chapter)
	}
	if hc.Exercise != "" {
		parts = append(parts, "exercise "+hc.Exercise)
	}
	if hc.Board != "" {
		parts = append(parts, hc.Board+" board")
	}
	if len(parts) > 0 {
		sb.WriteString(" The student is currently working on: " + strings.Join(parts, ", ") + ".")
	}

	return sb.String(), query
}
