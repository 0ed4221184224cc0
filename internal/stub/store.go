package stub

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openStore connects the stub's database: sqlite in-memory when no URL is
// configured, postgres for postgres URLs, sqlite DSNs otherwise.
func openStore(databaseURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch {
	case databaseURL == "":
		dialector = sqlite.Open("file::memory:?cache=shared")
	case strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://"):
		dialector = postgres.Open(databaseURL)
	default:
		dialector = sqlite.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open stub database: %w", err)
	}

	if err := db.AutoMigrate(&User{}, &Student{}, &Course{}, &Grade{}, &Attendance{}, &RoleRequest{}, &AuditLog{}); err != nil {
		return nil, fmt.Errorf("migrate stub database: %w", err)
	}

	return db, nil
}

func hashPassword(plain string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		return ""
	}
	return string(hash)
}

func checkPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func ptr[T any](v T) *T {
	return &v
}

// seed populates the canonical development data set: one account per role,
// three public courses, a mix of published and unpublished grades, some
// attendance, and one pending role request. Seeding is idempotent.
func seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	students := []Student{
		{StudentID: "S-1001", FullName: "Ali Hassan", Email: "ali@example.edu", Phone: "555-0101", DOB: "2003-04-12", Department: "CS", Classification: 2},
		{StudentID: "S-1002", FullName: "Mona Adel", Email: "mona@example.edu", Phone: "555-0102", DOB: "2004-09-30", Department: "EE", Classification: 1},
	}
	if err := db.Create(&students).Error; err != nil {
		return err
	}

	users := []User{
		{Username: "admin", PasswordHash: hashPassword("admin123"), Role: "Admin", ClearanceLevel: 3, FullName: "Portal Admin", Email: "admin@example.edu"},
		{Username: "instr1", PasswordHash: hashPassword("instr123"), Role: "Instructor", ClearanceLevel: 2, FullName: "Omar Said", Email: "omar@example.edu", InstructorID: ptr(int64(1))},
		{Username: "ta1", PasswordHash: hashPassword("ta123"), Role: "TA", ClearanceLevel: 2, FullName: "Lina Farouk", Email: "lina@example.edu"},
		{Username: "stud1", PasswordHash: hashPassword("stud123"), Role: "Student", ClearanceLevel: 1, StudentPKID: ptr(students[0].PKID)},
		{Username: "guest", PasswordHash: hashPassword("guest123"), Role: "Guest", ClearanceLevel: 1},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	courses := []Course{
		{CourseName: "Databases", PublicInfo: "Relational modeling and SQL."},
		{CourseName: "Operating Systems", PublicInfo: "Processes, scheduling, memory."},
		{CourseName: "Networks", PublicInfo: "Open to all departments."},
	}
	if err := db.Create(&courses).Error; err != nil {
		return err
	}

	today := time.Now().Format("2006-01-02")
	grades := []Grade{
		{StudentPKID: students[0].PKID, CourseID: courses[0].CourseID, GradeValue: 88, IsPublished: true, DateEntered: today, PublishedDate: ptr(today)},
		{StudentPKID: students[0].PKID, CourseID: courses[1].CourseID, GradeValue: 74.5, IsPublished: false, DateEntered: today},
		{StudentPKID: students[1].PKID, CourseID: courses[0].CourseID, GradeValue: 91, IsPublished: true, DateEntered: today, PublishedDate: ptr(today)},
	}
	if err := db.Create(&grades).Error; err != nil {
		return err
	}

	attendance := []Attendance{
		{StudentPKID: students[0].PKID, CourseID: courses[0].CourseID, Status: true, DateRecorded: today, RecordedBy: "ta1"},
		{StudentPKID: students[1].PKID, CourseID: courses[0].CourseID, Status: false, DateRecorded: today, RecordedBy: "ta1"},
	}
	if err := db.Create(&attendance).Error; err != nil {
		return err
	}

	request := RoleRequest{
		Username:      "stud1",
		CurrentRole:   "Student",
		RequestedRole: "TA",
		Reason:        "Grader for the databases course",
		Status:        "Pending",
		RequestDate:   today,
	}
	return db.Create(&request).Error
}

// writeAudit appends an audit row. Audit failures are not fatal to the
// mutation that triggered them.
func writeAudit(db *gorm.DB, username, action, table string, recordID int64, detail map[string]any) {
	var payload datatypes.JSON
	if detail != nil {
		if raw, err := json.Marshal(detail); err == nil {
			payload = datatypes.JSON(raw)
		}
	}

	db.Create(&AuditLog{
		Username:  username,
		Action:    action,
		TableName: table,
		RecordID:  recordID,
		Timestamp: time.Now().Format(time.RFC3339),
		Detail:    payload,
	})
}
