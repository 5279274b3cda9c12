package assignment

import (
	"time"

	"github.com/noah-isme/classroom-api/internal/models"
)

func strPtr(v string) *string { return &v }

func uintPtr(v uint) *uint { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func student(id uint, group *string) models.Student {
	return models.Student{ID: id, FullName: "Student", Email: "s@example.com", GroupName: group}
}
