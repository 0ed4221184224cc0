package stub

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/sira-console/internal/dto"
)

func studentRow(st Student) fiber.Map {
	return fiber.Map{
		"Student_PK_ID":  st.PKID,
		"StudentID":      st.StudentID,
		"FullName":       st.FullName,
		"Email":          st.Email,
		"Phone":          st.Phone,
		"DOB":            st.DOB,
		"Department":     st.Department,
		"Classification": st.Classification,
	}
}

func (s *Server) handleInstructorStudents(c *fiber.Ctx) error {
	var students []Student
	if err := s.db.Order("pk_id").Find(&students).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not load students")
	}

	rows := make([]fiber.Map, 0, len(students))
	for _, st := range students {
		rows = append(rows, studentRow(st))
	}
	return okPayload(c, fiber.Map{"rows": rows})
}

func (s *Server) handleStudentProfileLookup(c *fiber.Ctx) error {
	studentID := c.QueryInt("student_id")
	if studentID <= 0 {
		return fail(c, fiber.StatusBadRequest, "student_id is required and must be a number.")
	}

	var student Student
	if err := s.db.First(&student, "pk_id = ?", studentID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "No access or student not found.")
	}
	return okPayload(c, fiber.Map{"profile": studentRow(student)})
}

func (s *Server) handleAddStudent(c *fiber.Ctx) error {
	claims := sessionFrom(c)

	var req dto.AddStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "All student fields are required")
	}

	var existing int64
	s.db.Model(&Student{}).Where("student_id = ?", req.StudentID).Count(&existing)
	if existing > 0 {
		return fail(c, fiber.StatusConflict, "A student with that ID already exists")
	}

	classification := req.Classification
	if classification == 0 {
		classification = 1
	}
	student := Student{
		StudentID:      req.StudentID,
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		DOB:            req.DOB,
		Department:     req.Department,
		Classification: classification,
	}
	if err := s.db.Create(&student).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not add the student")
	}

	writeAudit(s.db, claims.Username, "ADD_STUDENT", "students", student.PKID, map[string]any{
		"student_id": req.StudentID,
	})
	return okPayload(c, fiber.Map{"student_pk_id": student.PKID})
}

func (s *Server) handleGradesByCourse(c *fiber.Ctx) error {
	query := s.db.Model(&Grade{}).Order("grade_id")
	if courseID := c.QueryInt("course_id"); courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}

	var grades []Grade
	if err := query.Find(&grades).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not load grades")
	}

	names := make(map[int64]string)
	var students []Student
	if err := s.db.Find(&students).Error; err == nil {
		for _, st := range students {
			names[st.PKID] = st.FullName
		}
	}

	rows := make([]fiber.Map, 0, len(grades))
	for _, g := range grades {
		rows = append(rows, fiber.Map{
			"GradeID":       g.GradeID,
			"Student_PK_ID": g.StudentPKID,
			"FullName":      names[g.StudentPKID],
			"CourseID":      g.CourseID,
			"GradeValue":    g.GradeValue,
			"IsPublished":   g.IsPublished,
			"DateEntered":   g.DateEntered,
			"PublishedDate": g.PublishedDate,
		})
	}
	return okPayload(c, fiber.Map{"rows": rows})
}

func (s *Server) handleInsertGrade(c *fiber.Ctx) error {
	claims := sessionFrom(c)

	var req dto.GradeInsertRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "A student, a course and a grade are required")
	}

	studentPK := req.StudentPK
	if studentPK == 0 {
		studentPK = req.StudentID
	}
	value := req.GradeValue
	if value == 0 {
		value = req.Grade
	}
	if value < 0 || value > 100 {
		return fail(c, fiber.StatusBadRequest, "Grade must be between 0 and 100")
	}

	var count int64
	s.db.Model(&Student{}).Where("pk_id = ?", studentPK).Count(&count)
	if count == 0 {
		return fail(c, fiber.StatusNotFound, "Student record not found")
	}

	grade := Grade{
		StudentPKID: studentPK,
		CourseID:    req.CourseID,
		GradeValue:  value,
		DateEntered: time.Now().Format("2006-01-02"),
	}
	if err := s.db.Create(&grade).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not insert the grade")
	}

	writeAudit(s.db, claims.Username, "INSERT_GRADE", "grades", grade.GradeID, map[string]any{
		"student_pk_id": studentPK,
		"course_id":     req.CourseID,
		"grade_value":   value,
	})
	return okPayload(c, fiber.Map{"grade_id": grade.GradeID})
}

func (s *Server) handleAggregateGrades(c *fiber.Ctx) error {
	type aggregate struct {
		CourseID int64
		Count    int64
		Average  float64
		Min      float64
		Max      float64
	}

	query := s.db.Model(&Grade{}).
		Select("course_id, COUNT(*) AS count, AVG(grade_value) AS average, MIN(grade_value) AS min, MAX(grade_value) AS max").
		Group("course_id").Order("course_id")
	if courseID := c.QueryInt("course_id"); courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}

	var aggregates []aggregate
	if err := query.Find(&aggregates).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not aggregate grades")
	}

	rows := make([]fiber.Map, 0, len(aggregates))
	for _, a := range aggregates {
		rows = append(rows, fiber.Map{
			"CourseID":   a.CourseID,
			"CourseName": s.courseName(a.CourseID),
			"GradeCount": a.Count,
			"AvgGrade":   a.Average,
			"MinGrade":   a.Min,
			"MaxGrade":   a.Max,
		})
	}
	return okPayload(c, fiber.Map{"rows": rows})
}

func (s *Server) handlePublishGrade(c *fiber.Ctx) error {
	claims := sessionFrom(c)

	var req dto.GradePublishRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "A grade ID is required")
	}

	var grade Grade
	if err := s.db.First(&grade, "grade_id = ?", req.GradeID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Grade not found")
	}

	updates := map[string]any{"is_published": req.Publish}
	if req.Publish {
		updates["published_date"] = time.Now().Format("2006-01-02")
	} else {
		updates["published_date"] = nil
	}
	if err := s.db.Model(&grade).Updates(updates).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not update the grade")
	}

	writeAudit(s.db, claims.Username, "PUBLISH_GRADE", "grades", grade.GradeID, map[string]any{
		"publish": req.Publish,
	})
	return okPayload(c, fiber.Map{})
}

func (s *Server) handleAttendanceByCourse(c *fiber.Ctx) error {
	query := s.db.Model(&Attendance{}).Order("attendance_id")
	if courseID := c.QueryInt("course_id"); courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}
	if studentID := c.QueryInt("student_id"); studentID > 0 {
		query = query.Where("student_pk_id = ?", studentID)
	}

	var records []Attendance
	if err := query.Find(&records).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not load attendance")
	}

	rows := make([]fiber.Map, 0, len(records))
	for _, a := range records {
		rows = append(rows, fiber.Map{
			"AttendanceID":  a.AttendanceID,
			"Student_PK_ID": a.StudentPKID,
			"CourseID":      a.CourseID,
			"Status":        a.Status,
			"DateRecorded":  a.DateRecorded,
			"RecordedBy":    a.RecordedBy,
		})
	}
	return okPayload(c, fiber.Map{"rows": rows})
}

func (s *Server) handleRecordAttendance(c *fiber.Ctx) error {
	claims := sessionFrom(c)

	var req dto.AttendanceRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "A student and a course are required")
	}

	var count int64
	s.db.Model(&Student{}).Where("pk_id = ?", req.StudentID).Count(&count)
	if count == 0 {
		return fail(c, fiber.StatusNotFound, "Student record not found")
	}

	record := Attendance{
		StudentPKID:  req.StudentID,
		CourseID:     req.CourseID,
		Status:       req.Status,
		DateRecorded: time.Now().Format("2006-01-02"),
		RecordedBy:   claims.Username,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not record attendance")
	}

	writeAudit(s.db, claims.Username, "RECORD_ATTENDANCE", "attendance", record.AttendanceID, map[string]any{
		"student_pk_id": req.StudentID,
		"course_id":     req.CourseID,
		"status":        req.Status,
	})
	return okPayload(c, fiber.Map{"attendance_id": record.AttendanceID})
}
