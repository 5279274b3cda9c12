package assignment

import "github.com/noah-isme/classroom-api/internal/models"

// IsVisible reports whether task is published to student.
//
// Targets that no longer match anything (renamed group, removed student) are
// simply not visible.
func IsVisible(task models.Task, student models.Student) bool {
	switch task.TargetType {
	case "", models.TargetAll:
		return true
	case models.TargetGroup:
		if task.TargetGroup == nil || !student.IsGrouped() {
			return false
		}
		return *task.TargetGroup == student.Group()
	case models.TargetStudent:
		return task.TargetStudent != nil && *task.TargetStudent == student.ID
	default:
		return false
	}
}

// ResolveVisible returns the tasks visible to student, preserving input order.
func ResolveVisible(tasks []models.Task, student models.Student) []models.Task {
	visible := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if IsVisible(task, student) {
			visible = append(visible, task)
		}
	}
	return visible
}
