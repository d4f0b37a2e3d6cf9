package service

import "time"

// SetAttendanceClock pins the attendance clock in tests.
func SetAttendanceClock(svc AttendanceService, now func() time.Time) {
	if s, ok := svc.(*attendanceService); ok {
		s.now = now
	}
}
