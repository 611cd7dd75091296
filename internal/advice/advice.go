// Package advice formats human-readable rationale and prevention guidance
// from a stored classification result. Pure presentation: it never touches
// the engine, only the result shape.
package advice

import (
	"fmt"
	"strings"

	"github.com/ioozy/scamwatch/internal/domain"
)

var stageExplanations = map[domain.Stage]string{
	domain.StageDiscovery:       "對話仍在初步接觸階段，尚未出現明顯的詐騙話術。",
	domain.StageGrooming:        "對方正在密集套交情、製造共同點，這是感情詐騙的鋪陳階段。",
	domain.StageTestingTrust:    "對方假借權威身分或共同背景測試你的信任程度。",
	domain.StageCrisisStory:     "對方編造了危機故事並施加時間壓力，是典型的詐騙劇本。",
	domain.StagePaymentCoaching: "對方已經開始指導匯款或提供帳號，極可能是詐騙。",
	domain.StageAftermath:       "對方在得手後安撫你或準備再次索款。",
}

var labelExplanations = map[domain.Category]string{
	domain.CategoryAuthority:  "假借官方或權威身分",
	domain.CategorySimilarity: "刻意強調與你的共同點",
	domain.CategoryScarcity:   "營造機會稀少的壓力",
	domain.CategoryUrgency:    "催促你立刻行動",
	domain.CategoryRomance:    "使用感情攻勢",
	domain.CategoryCrisis:     "描述緊急危機事件",
	domain.CategoryPayment:    "引導匯款或提供帳號",
}

var stagePrevention = map[domain.Stage]string{
	domain.StageDiscovery:       "保持平常心聊天即可，但不要透露個人財務資訊。",
	domain.StageGrooming:        "放慢關係進展，查證對方身分；真誠的關係經得起查證。",
	domain.StageTestingTrust:    "任何自稱官方的身分都應透過官方管道回撥查證。",
	domain.StageCrisisStory:     "危機故事加上時間壓力是詐騙組合拳，先掛斷再向家人或165查證。",
	domain.StagePaymentCoaching: "立即停止匯款操作，保留對話紀錄並撥打165反詐騙專線。",
	domain.StageAftermath:       "若已匯款請立刻報警並通知銀行止付，切勿再依對方指示操作。",
}

// Explain renders the rationale for a stored result.
func Explain(r *domain.ClassificationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "偵測階段 %d（%s）：%s", int(r.Stage), r.Stage, stageExplanations[r.Stage])

	if r.NoSignal() {
		b.WriteString(" 本則訊息未偵測到風險訊號。")
		return b.String()
	}

	var parts []string
	for _, label := range r.Labels {
		if desc, ok := labelExplanations[label]; ok {
			parts = append(parts, desc)
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(&b, " 偵測到的手法：%s。", strings.Join(parts, "、"))
	}
	return b.String()
}

// Prevent renders prevention guidance keyed by stage, with an extra payment
// warning when the payment label is present.
func Prevent(r *domain.ClassificationResult) string {
	var b strings.Builder
	b.WriteString(stagePrevention[r.Stage])
	if r.HasLabel(domain.CategoryPayment) && r.Stage < domain.StagePaymentCoaching {
		b.WriteString(" 對話中出現匯款相關內容，請特別提高警覺。")
	}
	return b.String()
}

// Warning is the high-risk annotation emitted alongside a flagged result.
func Warning() string {
	return "[警示] 你可能正被詐騙，請提高警覺！"
}
