package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/model"
)

// Input is one document of a batch: a URL to fetch or inline text
type Input struct {
	Line int    `json:"line"`
	URL  string `json:"url,omitempty"`
	Text string `json:"text,omitempty"`
}

// ParseInput classifies a batch line. Lines starting with http:// or
// https:// are URLs, anything else is document text.
func ParseInput(line string, lineNo int) Input {
	line = strings.TrimSpace(line)
	lower := strings.ToLower(line)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return Input{Line: lineNo, URL: line}
	}
	return Input{Line: lineNo, Text: line}
}

// AssessFunc assesses one batch input
type AssessFunc func(ctx context.Context, in Input) (*model.Report, error)

// AssessJob represents one document assessment
type AssessJob struct {
	Index  int
	Input  Input
	Assess AssessFunc
}

// Execute runs the assessment
func (j *AssessJob) Execute(ctx context.Context) Result {
	report, err := j.Assess(ctx, j.Input)
	return &AssessResult{
		Index:  j.Index,
		Input:  j.Input,
		Report: report,
		Error:  err,
	}
}

// AssessResult is the outcome of one batch input
type AssessResult struct {
	Index  int
	Input  Input
	Report *model.Report
	Error  error
}

// GetError returns the error from the assessment
func (r *AssessResult) GetError() error {
	return r.Error
}

// BatchProcessor assesses many documents concurrently
type BatchProcessor struct {
	assess      AssessFunc
	concurrency int
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(assess AssessFunc, concurrency int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		assess:      assess,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Process assesses inputs concurrently and returns results in input order
func (b *BatchProcessor) Process(ctx context.Context, inputs []Input) []*AssessResult {
	if len(inputs) == 0 {
		return []*AssessResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, in := range inputs {
		pool.Submit(&AssessJob{
			Index:  i,
			Input:  in,
			Assess: b.assess,
		})
	}

	results := pool.Wait()

	out := make([]*AssessResult, 0, len(results))
	failed := 0
	for _, result := range results {
		r := result.(*AssessResult)
		if r.Error != nil {
			failed++
			b.logger.Warn("batch item failed", zap.Int("line", r.Input.Line), zap.Error(r.Error))
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })

	b.logger.Info("batch completed",
		zap.Int("inputs", len(inputs)),
		zap.Int("completed", len(out)),
		zap.Int("failed", failed))

	return out
}

// ProcessFile reads inputs from a file and assesses them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AssessResult, error) {
	inputs, err := ReadInputsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}

	return b.Process(ctx, inputs), nil
}

// ReadInputsFromFile reads one document or URL per line. Blank lines and
// lines starting with # are skipped; repeated lines are assessed once.
func ReadInputsFromFile(filePath string) ([]Input, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var inputs []Input
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			inputs = append(inputs, ParseInput(line, lineNo))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return inputs, nil
}
