package dto

import "time"

// TeacherDashboardResponse is the snapshot backing the teacher page.
type TeacherDashboardResponse struct {
	Teacher      TeacherResponse       `json:"teacher"`
	Organization *OrganizationResponse `json:"organization"`
	Groups       []GroupResponse       `json:"groups"`
	Students     []StudentResponse     `json:"students"`
	Tasks        []TaskResponse        `json:"tasks"`
	ActiveTasks  []TaskResponse        `json:"active_tasks"`
	OverdueTasks []TaskResponse        `json:"overdue_tasks"`
	Submissions  []SubmissionResponse  `json:"submissions"`
	GeneratedAt  time.Time             `json:"generated_at"`
}

// StudentTask pairs a visible task with the submission that counts for it.
type StudentTask struct {
	TaskResponse
	Submission *SubmissionResponse `json:"submission"`
}

// StudentRoster is the group view from the student's perspective.
type StudentRoster struct {
	MyGroupName   *string           `json:"my_group_name"`
	MyGroupPeers  []StudentResponse `json:"my_group_peers"`
	AllGroupNames []string          `json:"all_group_names"`
	Students      []StudentResponse `json:"students"`
}

// StudentDashboardResponse is the snapshot backing the student page.
// Teacher and Organization are nil when no record is on file.
type StudentDashboardResponse struct {
	Student      StudentResponse       `json:"student"`
	Organization *OrganizationResponse `json:"organization"`
	Teacher      *TeacherResponse      `json:"teacher"`
	Tasks        []StudentTask         `json:"tasks"`
	Roster       StudentRoster         `json:"roster"`
	Submissions  []SubmissionResponse  `json:"submissions"`
	GeneratedAt  time.Time             `json:"generated_at"`
}
