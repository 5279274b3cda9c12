package service

import "errors"

var (
	// ErrIdentityMissing indicates the request carried no usable principal.
	ErrIdentityMissing = errors.New("identity missing")
	// ErrTeacherNotFound indicates no teacher record matches the principal.
	ErrTeacherNotFound = errors.New("teacher not found")
	// ErrStudentNotFound indicates no student record matches the principal or id.
	ErrStudentNotFound = errors.New("student not found")
	// ErrAlreadyRegistered indicates a record already exists for the principal's email.
	ErrAlreadyRegistered = errors.New("already registered")
	// ErrOrganizationNotFound indicates the organization does not exist.
	ErrOrganizationNotFound = errors.New("organization not found")
	// ErrOrganizationLinkFailed indicates the organization was created but the
	// teacher could not be linked to it.
	ErrOrganizationLinkFailed = errors.New("organization created but teacher link failed")
	// ErrTeacherWithoutOrganization indicates the teacher has not created an organization yet.
	ErrTeacherWithoutOrganization = errors.New("teacher has no organization")
	// ErrStudentWithoutOrganization indicates the student has not joined an organization yet.
	ErrStudentWithoutOrganization = errors.New("student has no organization")
	// ErrGroupNotFound indicates the group does not exist in the caller's organization.
	ErrGroupNotFound = errors.New("group not found")
	// ErrTaskNotFound indicates the task does not exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskNotVisible indicates the task exists but is not published to the student.
	ErrTaskNotVisible = errors.New("task not visible to student")
	// ErrSubmissionFileRequired indicates the upload carried no file.
	ErrSubmissionFileRequired = errors.New("submission file is required")
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the MIME type is not permitted.
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
)
