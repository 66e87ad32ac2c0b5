// internal/application/usecase/errors.go
package usecase

import (
	"errors"
	"fmt"
)

// ============================================================
// 失敗の分類
// ============================================================
//
// すべてのステージ内失敗はそのステージで捕捉され、必ずいずれかの Kind に
// 分類されて単一の通知チャネル（HTTP レスポンス）へ報告される。
// 未分類のエラーが orchestrator の外へ出ることはない。

// Stage は失敗が発生したワークフロー上の段階です。
type Stage string

const (
	StageStart       Stage = "start"
	StagePublishing  Stage = "publishing"
	StageBuilding    Stage = "building"
	StageFeeCharging Stage = "fee-charging"
	StageSubmitting  Stage = "submitting"
)

// Kind は失敗の種別（回復可能性の分類）です。
type Kind string

const (
	// KindNoWallet: 署名できるウォレットが無い。ネットワーク呼び出し前に即失敗する。
	KindNoWallet Kind = "no-wallet"
	// KindValidation: 必須入力の欠落。ネットワーク呼び出しは行われない。
	KindValidation Kind = "validation"
	// KindPublish: 画像 / メタデータのアップロード失敗。ユーザーは最初から再試行できる。
	KindPublish Kind = "publish"
	// KindFee: 手数料送金の失敗。資金が動いたか曖昧になり得るため独立して報告する。
	KindFee Kind = "fee"
	// KindSubmission: ミントトランザクションの失敗。命令セットはアトミックなので
	// 部分的なオンチェーン状態は残らない。
	KindSubmission Kind = "submission"
)

// ErrWorkflowBusy は同一セッションでワークフローが既に実行中の場合に返されます。
// 並行実行は同じ Spec / 結果状態を奪い合うため拒否する。
var ErrWorkflowBusy = errors.New("usecase: token creation workflow is already running")

// StageError はステージ・種別つきの終端失敗です。
type StageError struct {
	Stage Stage
	Kind  Kind
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("token creation failed at %s (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// AsStageError は err から StageError を取り出します（無ければ nil, false）。
func AsStageError(err error) (*StageError, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
