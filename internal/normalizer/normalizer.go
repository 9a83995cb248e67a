// Package normalizer cleans raw job objects coming from the external
// matching service before any other component sees them. The matcher reads
// its data out of a spreadsheet, so string fields can arrive with leading
// formula markers ("'=..." or "=...") and skill lists can arrive either as
// arrays or as one comma-delimited string.
package normalizer

import (
	"strconv"
	"strings"

	"github.com/resumodo/jobmatch/internal/models"
	"github.com/samber/lo"
)

// CleanValue strips a leading spreadsheet-formula marker and surrounding
// whitespace.
func CleanValue(value string) string {
	if strings.HasPrefix(value, "'=") {
		value = value[2:]
	} else if strings.HasPrefix(value, "=") {
		value = value[1:]
	}
	return strings.TrimSpace(value)
}

// Jobs converts raw decoded JSON objects into canonical JobRecords. It is a
// pure transform and never fails: values that cannot be interpreted degrade
// to their zero value rather than aborting the whole batch.
func Jobs(raw []map[string]any) []models.JobRecord {
	return lo.Map(raw, func(r map[string]any, _ int) models.JobRecord {
		return job(r)
	})
}

func job(raw map[string]any) models.JobRecord {
	return models.JobRecord{
		JobID:       cleanString(raw["job_id"]),
		Title:       cleanString(raw["title"]),
		Company:     cleanString(raw["company"]),
		Location:    cleanString(raw["location"]),
		JobType:     cleanString(raw["job_type"]),
		Salary:      cleanString(raw["salary"]),
		URL:         cleanString(raw["url"]),
		SourceAPI:   cleanString(raw["source_api"]),
		PostedDate:  cleanString(raw["posted_date"]),
		Description: cleanString(raw["description"]),

		HybridScore:     optFloat(raw["hybridScore"]),
		SemanticScore:   optFloat(raw["semanticScore"]),
		KeywordScore:    optFloat(raw["keywordScore"]),
		ExperienceScore: optFloat(raw["experienceScore"]),

		MatchedSkills:        skillList(raw["matchedSkills"]),
		MissingSkills:        skillList(raw["missingSkills"]),
		RequiredSkills:       skillList(raw["requiredSkills"]),
		MatchedSkillsCount:   optInt(raw["matchedSkillsCount"]),
		RequiredSkillsCount:  optInt(raw["requiredSkillsCount"]),
		SkillMatchPercentage: optFloat(raw["skillMatchPercentage"]),

		CandidateExperience: optFloat(raw["candidateExperience"]),
		CandidateSeniority:  cleanString(raw["candidateSeniority"]),
		RequiredExperience:  optFloat(raw["requiredExperience"]),

		Rank: optInt(raw["rank"]),
	}
}

func cleanString(value any) string {
	switch v := value.(type) {
	case string:
		return CleanValue(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return ""
	}
}

// skillList keeps the absent/empty distinction: nil input stays nil ("not
// computed"), while a present-but-empty value becomes an empty slice
// ("computed, zero matches").
func skillList(value any) []string {
	switch v := value.(type) {
	case []any:
		return lo.FilterMap(v, func(item any, _ int) (string, bool) {
			s := cleanString(item)
			return s, s != ""
		})
	case []string:
		return lo.FilterMap(v, func(item string, _ int) (string, bool) {
			s := CleanValue(item)
			return s, s != ""
		})
	case string:
		cleaned := CleanValue(v)
		if cleaned == "" {
			return []string{}
		}
		return lo.FilterMap(strings.Split(cleaned, ","), func(part string, _ int) (string, bool) {
			s := strings.TrimSpace(part)
			return s, s != ""
		})
	default:
		return nil
	}
}

func optFloat(value any) *float64 {
	switch v := value.(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case string:
		if f, err := strconv.ParseFloat(CleanValue(v), 64); err == nil {
			return &f
		}
		return nil
	default:
		return nil
	}
}

func optInt(value any) *int {
	switch v := value.(type) {
	case float64:
		i := int(v)
		return &i
	case int:
		return &v
	case string:
		if i, err := strconv.Atoi(CleanValue(v)); err == nil {
			return &i
		}
		return nil
	default:
		return nil
	}
}
