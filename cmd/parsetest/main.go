package main

// Exercise the resume parser against a local file:
//   go run ./cmd/parsetest -resume sample.pdf
//   go run ./cmd/parsetest -resume sample.txt -skills "Go,PostgreSQL,AWS"

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hiring-backend/internal/extract"
	"hiring-backend/internal/matching"
	"hiring-backend/internal/parsing"
)

func main() {
	resumePath := flag.String("resume", "", "Path to resume file (pdf, docx, txt or md)")
	jobPath := flag.String("job", "", "Path to a job JSON file whose skills array to match against (optional)")
	skillsArg := flag.String("skills", "", "Comma-separated job skills to match against (optional)")
	outPath := flag.String("out", "", "Path to write the profile JSON (optional)")
	withText := flag.Bool("text", false, "Include the extracted plain text in the output")
	flag.Parse()

	if strings.TrimSpace(*resumePath) == "" {
		exitErr("resume path is required")
	}

	mimeType, err := mimeFromExt(*resumePath)
	if err != nil {
		exitErr(err.Error())
	}

	resumeBytes, err := os.ReadFile(*resumePath)
	if err != nil {
		exitErr(fmt.Sprintf("read resume: %v", err))
	}
	fileName := filepath.Base(*resumePath)

	text, kind, err := extract.FromBytes(context.Background(), resumeBytes, mimeType, fileName)
	if err != nil {
		exitErr(fmt.Sprintf("extract resume text: %v", err))
	}

	parser := parsing.MustNew(parsing.DefaultConfig())
	result := parser.Extract(text, kind)
	if !*withText {
		result.Text = ""
	}

	jobSkills := splitSkills(*skillsArg)
	if *jobPath != "" {
		fromFile, err := jobSkillsFromFile(*jobPath)
		if err != nil {
			exitErr(err.Error())
		}
		jobSkills = append(jobSkills, fromFile...)
	}

	out := output{Result: result}
	if len(jobSkills) > 0 {
		match, err := matching.Match(result.Skills, jobSkills)
		if err != nil {
			exitErr(fmt.Sprintf("match skills: %v", err))
		}
		out.Match = &match
	}

	pretty, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, append(pretty, '\n'), 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}

	fmt.Println(string(pretty))
}

type output struct {
	Result parsing.Result        `json:"result"`
	Match  *matching.MatchResult `json:"match,omitempty"`
}

func splitSkills(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// jobSkillsFromFile reads the skills array from a job JSON file, the
// same shape the jobs API accepts.
func jobSkillsFromFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	var payload struct {
		Skills []string `json:"skills"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode job file: %w", err)
	}
	if len(payload.Skills) == 0 {
		return nil, fmt.Errorf("job file %s has no skills", path)
	}
	return payload.Skills, nil
}

func mimeFromExt(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf", nil
	case ".docx", ".doc":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document", nil
	case ".txt":
		return "text/plain", nil
	case ".md":
		return "text/markdown", nil
	default:
		return "", fmt.Errorf("unsupported resume file type: %s", filepath.Ext(path))
	}
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
