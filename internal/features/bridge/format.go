// Package bridge — format.go готовит тексты ответов (на вьетнамском).
package bridge

import (
	"fmt"
	"strings"

	"soicau.vn/xsmb-bot/internal/live"
	"soicau.vn/xsmb-bot/internal/scan"
	"soicau.vn/xsmb-bot/internal/xsmb"
)

// maxDayPairs — сколько пар показывать в разборе дня.
const maxDayPairs = 30

// HelpText — справка по командам.
const HelpText = `🎯 Bot soi cầu XSMB

/cau [exact|rev|bo] [n] [next] — cầu vị trí (cặp vị trí về đề ≥ n kỳ liên tiếp)
/giai [exact|bo] [n] [next] — cầu giải (giải chứa đủ 2 số của đề)
/ngay [k] — phân tích kỳ k (0 = mới nhất)
/todo — cặp vị trí về đề cả 2 kỳ gần nhất (tô đỏ)
/live — đối chiếu cầu với kết quả trực tiếp
/dangky, /huy — đăng ký / huỷ báo cáo hằng ngày

Dán kết quả (chữ hoặc OCR) vào chat để đối chiếu cầu.
Chế độ: exact = đúng đề, rev = đề hoặc lộn, bo = cùng bộ đề.
next = dùng kết quả hôm trước dự đoán đề hôm sau.`

func drawHeader(d xsmb.DrawRecord) string {
	return fmt.Sprintf("Kỳ %s — ĐB %s, đề %s (bộ %s)", d.Issue, d.Special(), d.De(), d.DeSet())
}

// FormatPositions — список cầu vị trí.
func FormatPositions(r *PositionReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📍 Cầu vị trí (%s) — %d kỳ\n", r.Options.Describe(), r.Draws)
	sb.WriteString(drawHeader(r.Latest) + "\n")
	if r.Dropped > 0 {
		fmt.Fprintf(&sb, "Bỏ qua %d kỳ lỗi dữ liệu\n", r.Dropped)
	}
	if len(r.Bridges) == 0 {
		sb.WriteString("\nKhông có cầu nào đạt ngưỡng.")
		return sb.String()
	}

	label := "hôm nay"
	if r.Options.Lag == scan.NextDay {
		label = "dự đoán"
	}
	sb.WriteString("\n")
	for n, b := range r.Bridges {
		fmt.Fprintf(&sb, "%d. %s — %d kỳ, %s: %s\n", n+1, b.Name(), b.Streak, label, b.Value)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatTiers — список cầu giải.
func FormatTiers(r *TierReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏷 Cầu giải (%s) — %d kỳ\n", r.Options.Describe(), r.Draws)
	if len(r.Bridges) == 0 {
		sb.WriteString("Không có giải nào đạt ngưỡng.")
		return sb.String()
	}
	for n, b := range r.Bridges {
		fmt.Fprintf(&sb, "%d. %s = %s — %d kỳ\n", n+1, b.Tier.Name, b.Val, b.Streak)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatDay — разбор одного тиража.
func FormatDay(a *scan.DayAnalysis) string {
	var sb strings.Builder
	sb.WriteString("📅 " + drawHeader(a.Draw) + "\n")
	if a.Draw.OpenTime != "" {
		sb.WriteString("Mở thưởng: " + a.Draw.OpenTime + "\n")
	}
	fmt.Fprintf(&sb, "Lô tô: %s\n", strings.Join(a.Draw.Lotos(), " "))
	fmt.Fprintf(&sb, "%d cặp vị trí ghép ra đề, %d vị trí tham gia\n", len(a.Pairs), len(a.Hits))

	for n, p := range a.Pairs {
		if n == maxDayPairs {
			fmt.Fprintf(&sb, "… và %d cặp nữa\n", len(a.Pairs)-maxDayPairs)
			break
		}
		fmt.Fprintf(&sb, "• %s + %s\n", xsmb.PositionName(p.I), xsmb.PositionName(p.J))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatCommon — пары, давшие «đề» два дня подряд.
func FormatCommon(r *CommonReport) string {
	var sb strings.Builder
	sb.WriteString("🔴 Tô đỏ — cặp về đề cả 2 kỳ\n")
	sb.WriteString(drawHeader(r.Today.Draw) + "\n")
	sb.WriteString(drawHeader(r.Yesterday.Draw) + "\n")
	if len(r.Pairs) == 0 {
		sb.WriteString("\nKhông có cặp chung.")
		return sb.String()
	}
	sb.WriteString("\n")
	for _, p := range r.Pairs {
		fmt.Fprintf(&sb, "• %s + %s (%s / %s)\n",
			xsmb.PositionName(p.I), xsmb.PositionName(p.J), p.ValueA, p.ValueB)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatReconciliation — доска и сработавшие cầu.
func FormatReconciliation(title string, r *Reconciliation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s — đã có %d/%d số\n", title, r.Board.Progress(), xsmb.DrawLength)
	if r.Values > 0 {
		fmt.Fprintf(&sb, "Nhận được %d giải\n", r.Values)
	}
	sb.WriteString("\n" + r.Board.Render())

	if len(r.Firings) == 0 && len(r.Tiers) == 0 {
		fmt.Fprintf(&sb, "\nChưa cầu nào nổ (%d cầu đang theo dõi).", len(r.Bridges))
		return sb.String()
	}
	if len(r.Firings) > 0 {
		sb.WriteString("\n💥 Cầu vị trí đã ra:\n")
		sb.WriteString(formatFirings(r.Firings))
	}
	if len(r.Tiers) > 0 {
		sb.WriteString("\n💥 Cầu giải đã ra:\n")
		for _, f := range r.Tiers {
			fmt.Fprintf(&sb, "• %s = %s (%d kỳ)\n", f.Bridge.Tier.Name, f.Value, f.Bridge.Streak)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatSnapshot — сообщение live-монитора о новых срабатываниях.
func FormatSnapshot(s *live.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📡 Trực tiếp %s — %d/%d số\n", s.Day, s.Progress, xsmb.DrawLength)
	sb.WriteString(formatFirings(s.New))
	if s.Complete {
		sb.WriteString("✅ Đã quay xong.")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatFirings(fs []live.Firing) string {
	var sb strings.Builder
	for _, f := range fs {
		fmt.Fprintf(&sb, "• %s → %s (%d kỳ)\n", f.Bridge.Name(), f.Value, f.Bridge.Streak)
	}
	return sb.String()
}
