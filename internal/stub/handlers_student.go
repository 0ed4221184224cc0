package stub

import (
	"github.com/gofiber/fiber/v2"
)

// Student endpoints serve only the caller's own rows, keyed by the student
// primary key carried in the session. Most respond in PascalCase; own-data is
// the one snake_case holdout, kept that way on purpose so clients exercise
// their casing fallback.

func (s *Server) studentFromSession(c *fiber.Ctx) (*Student, error) {
	claims := sessionFrom(c)
	if claims.StudentPKID == nil {
		return nil, fail(c, fiber.StatusForbidden, "No student profile linked to this account")
	}

	var student Student
	if err := s.db.First(&student, "pk_id = ?", *claims.StudentPKID).Error; err != nil {
		return nil, fail(c, fiber.StatusNotFound, "Student record not found")
	}
	return &student, nil
}

func (s *Server) handleStudentProfile(c *fiber.Ctx) error {
	student, err := s.studentFromSession(c)
	if student == nil {
		return err
	}
	return okPayload(c, fiber.Map{"profile": fiber.Map{
		"Student_PK_ID":  student.PKID,
		"StudentID":      student.StudentID,
		"FullName":       student.FullName,
		"Email":          student.Email,
		"Phone":          student.Phone,
		"DOB":            student.DOB,
		"Department":     student.Department,
		"Classification": student.Classification,
	}})
}

func (s *Server) handleStudentOwnData(c *fiber.Ctx) error {
	student, err := s.studentFromSession(c)
	if student == nil {
		return err
	}
	return okPayload(c, fiber.Map{"rows": []fiber.Map{{
		"student_pk_id":  student.PKID,
		"student_id":     student.StudentID,
		"full_name":      student.FullName,
		"email":          student.Email,
		"phone":          student.Phone,
		"dob":            student.DOB,
		"department":     student.Department,
		"classification": student.Classification,
	}}})
}

func (s *Server) handleStudentGrades(c *fiber.Ctx) error {
	student, failErr := s.studentFromSession(c)
	if student == nil {
		return failErr
	}

	var grades []Grade
	err := s.db.Where("student_pk_id = ? AND is_published = ?", student.PKID, true).
		Order("grade_id").Find(&grades).Error
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not load grades")
	}

	rows := make([]fiber.Map, 0, len(grades))
	for _, g := range grades {
		rows = append(rows, fiber.Map{
			"GradeID":       g.GradeID,
			"CourseID":      g.CourseID,
			"CourseName":    s.courseName(g.CourseID),
			"GradeValue":    g.GradeValue,
			"DateEntered":   g.DateEntered,
			"PublishedDate": g.PublishedDate,
		})
	}
	return okPayload(c, fiber.Map{"rows": rows})
}

func (s *Server) handleStudentAttendance(c *fiber.Ctx) error {
	student, failErr := s.studentFromSession(c)
	if student == nil {
		return failErr
	}

	var records []Attendance
	err := s.db.Where("student_pk_id = ?", student.PKID).
		Order("attendance_id").Find(&records).Error
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not load attendance")
	}

	rows := make([]fiber.Map, 0, len(records))
	for _, a := range records {
		rows = append(rows, fiber.Map{
			"AttendanceID": a.AttendanceID,
			"CourseID":     a.CourseID,
			"CourseName":   s.courseName(a.CourseID),
			"Status":       a.Status,
			"DateRecorded": a.DateRecorded,
		})
	}
	return okPayload(c, fiber.Map{"rows": rows})
}

func (s *Server) courseName(courseID int64) string {
	var course Course
	if err := s.db.First(&course, "course_id = ?", courseID).Error; err != nil {
		return ""
	}
	return course.CourseName
}
