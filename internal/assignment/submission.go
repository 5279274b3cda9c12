package assignment

import "github.com/noah-isme/classroom-api/internal/models"

// FindCurrent returns the first submission in the given order that belongs to
// taskID. The first match wins even if a later element was uploaded more
// recently; callers decide the order.
func FindCurrent(submissions []models.Submission, taskID uint) (models.Submission, bool) {
	for _, submission := range submissions {
		if submission.TaskID == taskID {
			return submission, true
		}
	}
	return models.Submission{}, false
}
