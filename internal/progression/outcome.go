package progression

import "github.com/noah-isme/sinau-go-api/internal/models"

// ModuleOutcome is the best exam submission across all exams of one module
// for one student. It is derived on demand and never persisted.
type ModuleOutcome struct {
	SubmissionID uint
	ExamID       uint
	Score        float64
	Passed       bool
}

// BestOutcome selects the winning submission among all attempts on any exam
// belonging to the module. Highest score wins; on a score tie a submission
// with Passed=true beats one without. ok is false when the student has no
// submissions for any of the module's exams.
//
// The result is re-derived from the full submission history on every call so
// late-arriving or out-of-order attempts can never leave a stale verdict.
func BestOutcome(moduleExams []models.Exam, submissions []models.ExamSubmission) (ModuleOutcome, bool) {
	examIDs := make(map[uint]struct{}, len(moduleExams))
	for _, exam := range moduleExams {
		examIDs[exam.ID] = struct{}{}
	}

	var best ModuleOutcome
	found := false

	for _, submission := range submissions {
		if _, belongs := examIDs[submission.ExamID]; !belongs {
			continue
		}

		candidate := ModuleOutcome{
			SubmissionID: submission.ID,
			ExamID:       submission.ExamID,
			Score:        submission.Score,
			Passed:       submission.Passed,
		}

		if !found || better(candidate, best) {
			best = candidate
			found = true
		}
	}

	return best, found
}

func better(candidate, current ModuleOutcome) bool {
	if candidate.Score != current.Score {
		return candidate.Score > current.Score
	}
	return candidate.Passed && !current.Passed
}
