package assignment

import "github.com/noah-isme/classroom-api/internal/models"

// Roster is the group view of an organization from one student's perspective.
type Roster struct {
	MyGroupName   *string
	MyGroupPeers  []models.Student
	AllGroupNames []string
}

// Aggregate derives selfID's group, its other members, and the distinct group
// names present in students.
func Aggregate(students []models.Student, selfID uint) Roster {
	roster := Roster{
		MyGroupPeers:  make([]models.Student, 0),
		AllGroupNames: GroupNames(students),
	}

	for _, student := range students {
		if student.ID == selfID && student.IsGrouped() {
			name := student.Group()
			roster.MyGroupName = &name
			break
		}
	}

	if roster.MyGroupName == nil {
		return roster
	}

	for _, student := range students {
		if student.ID == selfID {
			continue
		}
		if student.IsGrouped() && student.Group() == *roster.MyGroupName {
			roster.MyGroupPeers = append(roster.MyGroupPeers, student)
		}
	}

	return roster
}

// GroupNames lists distinct non-blank group labels in first-seen order.
func GroupNames(students []models.Student) []string {
	seen := make(map[string]struct{}, len(students))
	names := make([]string, 0)
	for _, student := range students {
		if !student.IsGrouped() {
			continue
		}
		name := student.Group()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// GroupSizes counts students per group label. Labels are matched exactly, so
// a count exists for every label in use whether or not a Group row carries it.
func GroupSizes(students []models.Student) map[string]int64 {
	sizes := make(map[string]int64)
	for _, student := range students {
		if !student.IsGrouped() {
			continue
		}
		sizes[student.Group()]++
	}
	return sizes
}
