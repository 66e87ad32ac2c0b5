// internal/application/usecase/create_token_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	tokendom "tokenforge/internal/domain/token"
)

// ============================================================
// State machine
// ============================================================
//
// Idle → Publishing → Building → Fee-Charging → Submitting → Confirmed / Failed
//
// 手数料徴収とミント送信は独立したアトミック単位であり、
// fee-before / fee-after の順序はポリシー設定（FeePolicy）で選ぶ。

// State はワークフローの現在状態です。
type State string

const (
	StateIdle        State = "idle"
	StatePublishing  State = "publishing"
	StateBuilding    State = "building"
	StateFeeCharging State = "fee-charging"
	StateSubmitting  State = "submitting"
	StateConfirmed   State = "confirmed"
	StateFailed      State = "failed"
)

// FeePolicy は手数料徴収の順序ポリシーです（config 側の値から DI で写像される）。
type FeePolicy string

const (
	// FeeBefore はミント送信前に徴収する。徴収失敗はミント送信をゲートする
	// （参照実装の既定動作）。
	FeeBefore FeePolicy = "before"
	// FeeAfter はミント確定後に徴収する。徴収失敗は確定済みミントを覆い隠さず、
	// MintOutcome.FeeFailure として独立に報告される。
	FeeAfter FeePolicy = "after"
	// FeeDisabled は徴収しない。
	FeeDisabled FeePolicy = "disabled"
)

// Options はワークフローの変動点です。
// 参照実装に複数あった近似重複バリアントの差分（手数料の有無・順序）を
// コピーではなく設定として吸収する。
type Options struct {
	FeePolicy   FeePolicy
	FeeReceiver string
	FeeLamports uint64
}

// CreateTokenInput は 1 回のワークフロー実行の入力です。
type CreateTokenInput struct {
	Spec          tokendom.Spec
	ImageFilename string // 画像アセットを伴う場合の元ファイル名（pin 時のヒント）
}

// CreateTokenUsecase はトークン作成ワークフローのオーケストレータです。
// すべてのコラボレータはコンストラクタで注入され、プロセス全域の
// シングルトンには依存しない（モック台帳での隔離テストを可能にするため）。
type CreateTokenUsecase struct {
	wallet    Wallet
	publisher MetadataPublisher
	ledger    LedgerGateway
	fees      FeeCollector
	records   tokendom.MintRecordRepository // nil なら永続化はスキップ
	opts      Options

	mu      sync.Mutex
	running bool
	state   State
}

// NewCreateTokenUsecase はオーケストレータを初期化します。
// records は永続化が未設定の環境では nil を渡してよい。
func NewCreateTokenUsecase(
	wallet Wallet,
	publisher MetadataPublisher,
	ledger LedgerGateway,
	fees FeeCollector,
	records tokendom.MintRecordRepository,
	opts Options,
) *CreateTokenUsecase {
	if opts.FeePolicy == "" {
		opts.FeePolicy = FeeBefore
	}
	return &CreateTokenUsecase{
		wallet:    wallet,
		publisher: publisher,
		ledger:    ledger,
		fees:      fees,
		records:   records,
		opts:      opts,
		state:     StateIdle,
	}
}

// State は現在状態を返します（FSM の外部観測用）。
func (u *CreateTokenUsecase) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// ============================================================
// Public API
// ============================================================

// CreateToken はワークフロー 1 回分を実行します。
//
//  1. ウォレット確認（無ければ no-wallet で即失敗・ネットワーク呼び出しなし）
//  2. 入力検証（欠落があれば validation で即失敗・ネットワーク呼び出しなし）
//  3. Publishing: 画像 pin（必要なら）→ メタデータ JSON pin
//  4. Building: レント問い合わせ → ミント keypair 生成
//  5. Fee-Charging / Submitting: ポリシー順に手数料徴収とミント送信
//  6. 成功時はミント履歴を best-effort で永続化
//
// 終端状態（Confirmed / Failed）への到達は分岐ごとに重複させず、
// 単一の finish で保証する。
func (u *CreateTokenUsecase) CreateToken(ctx context.Context, in CreateTokenInput) (*tokendom.MintOutcome, error) {
	if u == nil {
		return nil, errors.New("create token usecase is nil")
	}

	// 再入防止: 実行中の 2 回目の起動は拒否する
	if !u.tryBegin() {
		return nil, ErrWorkflowBusy
	}

	start := time.Now()
	terminal := StateFailed
	defer u.finish(&terminal, start)

	// 1) 署名ウォレットの有無が開始の唯一の前提条件
	payer, ok := u.wallet.PayerPublicKey()
	if !ok {
		return nil, u.fail(StageStart, KindNoWallet, errors.New("payer wallet is not configured"))
	}

	// 2) ネットワーク呼び出し前の入力検証
	if err := in.Spec.Validate(); err != nil {
		return nil, u.fail(StageStart, KindValidation, err)
	}
	if strings.TrimSpace(in.Spec.Description) == "" {
		return nil, u.fail(StageStart, KindValidation, tokendom.ErrMetadataDescriptionEmpty)
	}
	if !in.Spec.HasImage() {
		return nil, u.fail(StageStart, KindValidation, tokendom.ErrMissingImage)
	}

	log.Printf(
		"[create_token] start name=%q symbol=%q decimals=%d supply=%d payer=%s feePolicy=%s",
		in.Spec.Name, in.Spec.Symbol, in.Spec.Decimals, in.Spec.Supply, payer, u.opts.FeePolicy,
	)

	// 3) Publishing
	u.setState(StatePublishing)

	imageURI := strings.TrimSpace(in.Spec.ImageURI)
	if imageURI == "" {
		uri, err := u.publisher.PinFile(ctx, in.ImageFilename, in.Spec.Image)
		if err != nil {
			return nil, u.fail(StagePublishing, KindPublish, err)
		}
		imageURI = uri
	}

	doc := tokendom.NewMetadataDocument(in.Spec, imageURI)
	if err := doc.Validate(); err != nil {
		return nil, u.fail(StagePublishing, KindValidation, err)
	}

	metadataURI, err := u.publisher.PinJSON(ctx, doc)
	if err != nil {
		return nil, u.fail(StagePublishing, KindPublish, err)
	}

	// 4) Building（失敗しても部分的な状態は残らない）
	u.setState(StateBuilding)

	rent, err := u.ledger.MintRent(ctx)
	if err != nil {
		return nil, u.fail(StageBuilding, KindSubmission, err)
	}

	identity, err := u.ledger.GenerateMintIdentity()
	if err != nil {
		return nil, u.fail(StageBuilding, KindSubmission, err)
	}

	outcome := &tokendom.MintOutcome{MetadataURI: metadataURI}

	// 5a) fee-before: 徴収失敗はミント送信をゲートする
	if u.opts.FeePolicy == FeeBefore {
		u.setState(StateFeeCharging)
		feeSig, err := u.fees.CollectFee(ctx, u.opts.FeeReceiver, u.opts.FeeLamports)
		if err != nil {
			return nil, u.fail(StageFeeCharging, KindFee, err)
		}
		outcome.FeeSignature = feeSig
		log.Printf("[create_token] fee charged sig=%s", feeSig)
	}

	// 5b) Submitting: オンチェーン uri は pin の戻り値をそのまま使う（不一致は欠陥）
	u.setState(StateSubmitting)
	sig, err := u.ledger.SubmitCreateToken(ctx, SubmitCreateTokenInput{
		Mint:        identity,
		MintRent:    rent,
		Spec:        in.Spec,
		MetadataURI: metadataURI,
	})
	if err != nil {
		return nil, u.fail(StageSubmitting, KindSubmission, err)
	}
	outcome.MintAddress = identity.Address
	outcome.Signature = sig

	// 5c) fee-after: 徴収失敗は確定済みミントを覆い隠さず独立に報告する
	if u.opts.FeePolicy == FeeAfter {
		u.setState(StateFeeCharging)
		feeSig, err := u.fees.CollectFee(ctx, u.opts.FeeReceiver, u.opts.FeeLamports)
		if err != nil {
			outcome.FeeFailure = "fee transfer failed after mint confirmation: " + err.Error()
			log.Printf("[create_token] WARN fee failed after confirmed mint mint=%s err=%v", identity.Address, err)
		} else {
			outcome.FeeSignature = feeSig
		}
	}

	// 6) 履歴の永続化は best-effort（失敗してもワークフローの成否には影響させない）
	if u.records != nil {
		if rec, recErr := tokendom.NewMintRecord(in.Spec, *outcome, time.Now()); recErr != nil {
			log.Printf("[create_token] WARN build mint record failed mint=%s err=%v", identity.Address, recErr)
		} else if _, createErr := u.records.Create(ctx, rec); createErr != nil {
			log.Printf("[create_token] WARN persist mint record failed mint=%s err=%v", identity.Address, createErr)
		}
	}

	terminal = StateConfirmed
	log.Printf("[create_token] confirmed mint=%s sig=%s", identity.Address, sig)
	return outcome, nil
}

// ============================================================
// internal
// ============================================================

// tryBegin は実行中フラグの CAS です。false なら別の実行が進行中。
func (u *CreateTokenUsecase) tryBegin() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.running {
		return false
	}
	u.running = true
	u.state = StateIdle
	return true
}

func (u *CreateTokenUsecase) setState(s State) {
	u.mu.Lock()
	u.state = s
	u.mu.Unlock()
	log.Printf("[create_token] state=%s", s)
}

// finish はすべての exit path が通る単一の終端処理です。
// 実行中フラグの解除（= ローディング表示のクリアに相当）はここだけで行う。
func (u *CreateTokenUsecase) finish(terminal *State, start time.Time) {
	u.mu.Lock()
	u.state = *terminal
	u.running = false
	u.mu.Unlock()
	log.Printf("[create_token] finished state=%s elapsed=%s", *terminal, time.Since(start))
}

func (u *CreateTokenUsecase) fail(stage Stage, kind Kind, err error) error {
	se := &StageError{Stage: stage, Kind: kind, Err: err}
	log.Printf("[create_token] failed stage=%s kind=%s err=%v", stage, kind, err)
	return se
}
