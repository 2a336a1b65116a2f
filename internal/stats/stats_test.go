package stats

import "testing"

func TestSnapshotStartsGood(t *testing.T) {
	m := New(256, 0, 2.0)
	snap := m.Snapshot()
	if snap.QualityLevel != "good" {
		t.Errorf("QualityLevel = %q, want good", snap.QualityLevel)
	}
}

func TestReportPacketOutcomeDegradesQuality(t *testing.T) {
	m := New(256, 0, 2.0)
	for i := 0; i < 20; i++ {
		m.ReportPacketOutcome(true)
	}
	snap := m.Snapshot()
	if snap.LossRate <= 0 {
		t.Errorf("LossRate = %v, want > 0 after all-loss reports", snap.LossRate)
	}
	if snap.QualityLevel != "poor" {
		t.Errorf("QualityLevel = %q, want poor after sustained loss", snap.QualityLevel)
	}
}

func TestReportVideoPacketReceivedAccumulatesJitter(t *testing.T) {
	m := New(256, 0, 2.0)
	m.ReportVideoPacketReceived(1_000_000_000)
	m.ReportVideoPacketReceived(1_050_000_000)
	snap := m.Snapshot()
	if snap.JitterMs < 0 {
		t.Errorf("JitterMs = %v, want >= 0", snap.JitterMs)
	}
}
