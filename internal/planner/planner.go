// Package planner runs one generation cycle: it turns the day's priorities
// into a prompt, calls the model, and parses the structured response.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"zenith-planner/internal/llm"
	"zenith-planner/internal/plan"
)

const agentName = "Planner"

// fallbackGoal is used when no priority survives filtering. Callers gate on
// HasActivePriority, so this only covers direct invocations.
const fallbackGoal = "일반적인 생산성 향상"

// Planner generates daily plans from priorities.
type Planner struct {
	textGen llm.TextGenerator
}

// NewPlanner creates a new Planner instance.
func NewPlanner(textGen llm.TextGenerator) *Planner {
	return &Planner{textGen: textGen}
}

// GeneratePlan asks the model for a schedule, todo list, and note covering
// the given priorities. Empty priorities are filtered before the prompt is
// built. The returned Meta carries usage for metrics even when parsing the
// response fails.
func (p *Planner) GeneratePlan(ctx context.Context, priorities []string) (*plan.GenerationResult, llm.Meta, error) {
	start := time.Now()
	prompt := buildPrompt(priorities)

	resp, err := p.textGen.GenerateContent(ctx, prompt)
	meta := llm.Meta{AgentName: agentName, Usage: resp.Usage, Latency: time.Since(start)}
	if err != nil {
		return nil, meta, fmt.Errorf("failed to generate plan from LLM: %w", err)
	}

	var result plan.GenerationResult
	if err := json.Unmarshal([]byte(resp.Content), &result); err != nil {
		return nil, meta, fmt.Errorf("failed to parse plan JSON: %w. Response: %s", err, resp.Content)
	}

	return &result, meta, nil
}

func buildPrompt(priorities []string) string {
	active := plan.ActivePriorities(priorities)
	goal := fallbackGoal
	if len(active) > 0 {
		goal = strings.Join(active, ", ")
	}

	return fmt.Sprintf(`오늘의 주요 우선순위(목표)는 다음과 같습니다: "%s".
이 우선순위들을 달성하기 위한 현실적인 일일 일정(오전 8시 또는 적절한 시간부터 시작)과 할 일 목록을 작성해 주세요.
활동 내용은 간결하게(5단어 이내) 작성해 주세요.
일정에는 최소 6-8개의 슬롯을 채우고, 여유 시간을 두세요.
모든 응답 내용은 한국어로 작성해 주세요.
The output must be strictly JSON.`, goal)
}
