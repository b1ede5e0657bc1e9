// file: internals/features/homework/service/sla_service_test.go
package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	hwModel "bimbelku_backend/internals/features/homework/model"
)

func TestComputeSlaSummary_CountsAndAverage(t *testing.T) {
	db := newTestDB(t)
	svc := NewSlaService(db)
	bimbel := uuid.New()

	tutor := uuid.New()
	branch := uuid.New()
	sess := createSession(t, db, bimbel, sessionSeed{
		TutorID: &tutor, BranchID: &branch,
		TutorName: "Pak Budi", BranchName: "Cabang Depok",
	})

	base := time.Now().Add(-48 * time.Hour)
	// assigned: tidak menyumbang durasi
	createItem(t, db, bimbel, sess, uuid.New(), hwModel.HomeworkItemStatusAssigned, &base, nil, nil)
	// submitted: tidak menyumbang durasi
	createItem(t, db, bimbel, sess, uuid.New(), hwModel.HomeworkItemStatusSubmitted, &base, tptr(base.Add(time.Hour)), nil)
	// reviewed 2 jam
	createItem(t, db, bimbel, sess, uuid.New(), hwModel.HomeworkItemStatusReviewed,
		&base, tptr(base.Add(time.Hour)), tptr(base.Add(3*time.Hour)))
	// reviewed 4 jam
	createItem(t, db, bimbel, sess, uuid.New(), hwModel.HomeworkItemStatusReviewed,
		&base, tptr(base.Add(time.Hour)), tptr(base.Add(5*time.Hour)))
	// reviewed tapi submitted_at hilang (backfill) → dikeluarkan dari rata-rata
	createItem(t, db, bimbel, sess, uuid.New(), hwModel.HomeworkItemStatusReviewed,
		&base, nil, tptr(base.Add(time.Hour)))
	// reviewed dengan durasi negatif (timestamp dikoreksi manual) → dikeluarkan
	createItem(t, db, bimbel, sess, uuid.New(), hwModel.HomeworkItemStatusReviewed,
		&base, tptr(base.Add(5*time.Hour)), tptr(base.Add(time.Hour)))

	sum, err := svc.ComputeSlaSummary(context.Background(), bimbel, SlaFilter{})
	if err != nil {
		t.Fatalf("ComputeSlaSummary: %v", err)
	}

	if sum.TotalItems != 6 {
		t.Fatalf("total=%d, want 6", sum.TotalItems)
	}
	wantCounts := map[string]int64{"assigned": 1, "submitted": 1, "reviewed": 4}
	var byStatus int64
	for k, want := range wantCounts {
		if sum.CountsByStatus[k] != want {
			t.Errorf("counts[%s]=%d, want %d", k, sum.CountsByStatus[k], want)
		}
		byStatus += sum.CountsByStatus[k]
	}
	if byStatus != sum.TotalItems {
		t.Fatalf("counts_by_status jumlahnya %d != total %d", byStatus, sum.TotalItems)
	}

	if sum.ReviewedDurationCount != 2 {
		t.Fatalf("reviewed_duration_count=%d, want 2 (durasi hilang/negatif dikeluarkan)", sum.ReviewedDurationCount)
	}
	if sum.AvgReviewHours == nil {
		t.Fatal("avg_review_hours kosong")
	}
	if math.Abs(*sum.AvgReviewHours-3.0) > 0.01 {
		t.Fatalf("avg=%f, want ~3.0 ((2+4)/2)", *sum.AvgReviewHours)
	}

	if len(sum.BreakdownRows) != 1 {
		t.Fatalf("breakdown rows=%d, want 1", len(sum.BreakdownRows))
	}
	row := sum.BreakdownRows[0]
	if row.BranchName != "Cabang Depok" || row.TutorName != "Pak Budi" {
		t.Fatalf("snapshot nama salah: %q / %q", row.BranchName, row.TutorName)
	}
	if row.ReviewedDurationCount != 2 || row.AvgReviewHours == nil {
		t.Fatalf("breakdown durasi: count=%d avg=%v", row.ReviewedDurationCount, row.AvgReviewHours)
	}
}

func TestComputeSlaSummary_EmptyTenant(t *testing.T) {
	db := newTestDB(t)
	svc := NewSlaService(db)

	sum, err := svc.ComputeSlaSummary(context.Background(), uuid.New(), SlaFilter{})
	if err != nil {
		t.Fatalf("ComputeSlaSummary: %v", err)
	}
	if sum.TotalItems != 0 {
		t.Fatalf("total=%d, want 0", sum.TotalItems)
	}
	if sum.AvgReviewHours != nil {
		t.Fatal("avg harusnya nil saat tidak ada durasi")
	}
	// ketiga status tetap hadir sebagai key walau nol
	for _, k := range []string{"assigned", "submitted", "reviewed"} {
		if _, ok := sum.CountsByStatus[k]; !ok {
			t.Fatalf("counts_by_status kehilangan key %q", k)
		}
	}
}

func TestComputeSlaSummary_BreakdownSortedByName(t *testing.T) {
	db := newTestDB(t)
	svc := NewSlaService(db)
	bimbel := uuid.New()

	base := time.Now().Add(-24 * time.Hour)
	tA, tB := uuid.New(), uuid.New()
	brA, brB := uuid.New(), uuid.New()

	sZ := createSession(t, db, bimbel, sessionSeed{TutorID: &tA, BranchID: &brB, TutorName: "Zahra", BranchName: "Bekasi"})
	sA := createSession(t, db, bimbel, sessionSeed{TutorID: &tB, BranchID: &brA, TutorName: "Andi", BranchName: "Bekasi"})
	sNoName := createSession(t, db, bimbel, sessionSeed{}) // tanpa snapshot → nama kosong duluan

	for _, sess := range []uuid.UUID{sZ, sA, sNoName} {
		createItem(t, db, bimbel, sess, uuid.New(), hwModel.HomeworkItemStatusAssigned, &base, nil, nil)
	}

	sum, err := svc.ComputeSlaSummary(context.Background(), bimbel, SlaFilter{})
	if err != nil {
		t.Fatalf("ComputeSlaSummary: %v", err)
	}
	if len(sum.BreakdownRows) != 3 {
		t.Fatalf("breakdown rows=%d, want 3", len(sum.BreakdownRows))
	}
	names := []string{
		sum.BreakdownRows[0].BranchName + "/" + sum.BreakdownRows[0].TutorName,
		sum.BreakdownRows[1].BranchName + "/" + sum.BreakdownRows[1].TutorName,
		sum.BreakdownRows[2].BranchName + "/" + sum.BreakdownRows[2].TutorName,
	}
	want := []string{"/", "Bekasi/Andi", "Bekasi/Zahra"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("urutan breakdown salah: %v, want %v", names, want)
		}
	}
}

func TestComputeSlaSummary_FilterByTutorAndWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewSlaService(db)
	bimbel := uuid.New()

	tA, tB := uuid.New(), uuid.New()
	early := time.Now().Add(-10 * 24 * time.Hour)
	late := time.Now().Add(-1 * 24 * time.Hour)
	sEarly := createSession(t, db, bimbel, sessionSeed{TutorID: &tA, StartsAt: early})
	sLate := createSession(t, db, bimbel, sessionSeed{TutorID: &tB, StartsAt: late})

	createItem(t, db, bimbel, sEarly, uuid.New(), hwModel.HomeworkItemStatusAssigned, &early, nil, nil)
	createItem(t, db, bimbel, sLate, uuid.New(), hwModel.HomeworkItemStatusAssigned, &late, nil, nil)

	sum, err := svc.ComputeSlaSummary(context.Background(), bimbel, SlaFilter{TutorID: &tA})
	if err != nil {
		t.Fatalf("filter tutor: %v", err)
	}
	if sum.TotalItems != 1 {
		t.Fatalf("filter tutor: total=%d, want 1", sum.TotalItems)
	}

	cut := time.Now().Add(-5 * 24 * time.Hour)
	sum, err = svc.ComputeSlaSummary(context.Background(), bimbel, SlaFilter{From: &cut})
	if err != nil {
		t.Fatalf("filter window: %v", err)
	}
	if sum.TotalItems != 1 {
		t.Fatalf("filter window: total=%d, want 1", sum.TotalItems)
	}
}
