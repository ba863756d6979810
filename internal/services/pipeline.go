// Package services – Pipeline
//
// This file implements Pipeline, the orchestrator for inbound SMS deliveries.
// A delivery passes, in order, the dedup guard, the subscriber directory, the
// compliance gate (opt-out, STOP, HELP), the one-time welcome, the rate
// limiter and finally the answer generator, whose reply is segmented and sent
// part by part.
//
// Every decision for a request is taken inside one DB transaction while the
// pipeline mutex is held, so two concurrent deliveries can never both pass the
// dedup or rate-limit checks. The slow collaborators (AnswerGenerator and
// OutboundSender) run after that transaction has committed and without the
// lock; the resulting audit events are appended under the lock afterwards.
//
// Observability: Handle is OpenTelemetry-instrumented and feeds the
// sms_inbound_total and sms_outbound_parts_total counters.

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-sms-backend/internal/domain"
	"github.com/tbourn/go-sms-backend/internal/repo"
)

const (
	// MaxAnswerRunes caps a generated reply at three single-SMS lengths.
	MaxAnswerRunes = 480
	// MaxEventTextRunes caps the text stored on an audit event.
	MaxEventTextRunes = 800
	// DefaultCollaboratorTimeout bounds each answer or send call.
	DefaultCollaboratorTimeout = 15 * time.Second
)

// Labels stored as the text of MT events for canned replies.
const (
	labelStopConfirm = "STOP confirm"
	labelHelp        = "HELP"
	labelWelcome     = "WELCOME"
	labelRateLimit   = "rate-limit notice"
)

// Outcome is the terminal branch a delivery took through the pipeline.
type Outcome string

const (
	OutcomeDuplicate   Outcome = "duplicate"
	OutcomeBlocked     Outcome = "blocked"
	OutcomeStopped     Outcome = "stopped"
	OutcomeHelp        Outcome = "help"
	OutcomeRateLimited Outcome = "rate_limited"
	OutcomeAnswered    Outcome = "answered"
	OutcomeFailed      Outcome = "failed"
)

// Inbound is one delivery notification as parsed by the HTTP layer.
type Inbound struct {
	Sender    string
	Text      string
	MessageID string
}

// Result describes what the pipeline did with a delivery.
type Result struct {
	Outcome    Outcome
	DeliveryID string
	Welcomed   bool // a welcome message was due for this delivery
	PartsSent  int  // outbound parts delivered, across all messages
}

// Pipeline coordinates inbound processing. The zero value is not usable; DB,
// Answerer and Sender are required.
type Pipeline struct {
	DB       *gorm.DB
	Limiter  RateLimiter
	Copy     Copy
	Answerer AnswerGenerator
	Sender   OutboundSender

	// Optional tuning; zero values fall back to the package defaults.
	DedupTTL time.Duration
	Timeout  time.Duration
	Now      func() time.Time

	mu sync.Mutex
}

// decision is what the locked phase resolved; the collaborator phase acts on it.
type decision struct {
	outcome Outcome
	welcome bool
}

// Handle runs one delivery through the pipeline.
//
// It returns ErrMissingSender (and touches nothing) when the sender is blank.
// Duplicates, opted-out subscribers and rate-limited requests are successful
// outcomes. A failing collaborator yields an error wrapping ErrAnswerFailed
// or ErrSendFailed; state committed before the call (dedup mark, opt-out,
// welcome flag, counters) is kept, and events for messages that were
// delivered are still appended.
func (p *Pipeline) Handle(ctx context.Context, in Inbound) (*Result, error) {
	tr := otel.Tracer("services/Pipeline")
	ctx, span := tr.Start(ctx, "Handle",
		trace.WithAttributes(
			attribute.Bool("delivery.has_message_id", strings.TrimSpace(in.MessageID) != ""),
		),
	)
	defer span.End()

	sender := strings.TrimSpace(in.Sender)
	if sender == "" {
		return nil, ErrMissingSender
	}
	text := strings.TrimSpace(in.Text)
	now := p.now()
	hash := HashMSISDN(sender)
	id := DeliveryID(sender, text, in.MessageID, now)

	span.SetAttributes(
		attribute.String("subscriber.hash", hash),
		attribute.String("delivery.id", id),
	)
	lg := zerolog.Ctx(ctx).With().Str("subscriber", hash[:12]).Str("delivery_id", id).Logger()

	d, err := p.decide(ctx, hash, text, id, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decide")
		inboundTotal.WithLabelValues(string(OutcomeFailed)).Inc()
		return nil, err
	}
	res := &Result{Outcome: d.outcome, DeliveryID: id, Welcomed: d.welcome}
	span.SetAttributes(attribute.String("pipeline.outcome", string(d.outcome)))

	if d.outcome == OutcomeDuplicate || d.outcome == OutcomeBlocked {
		lg.Debug().Str("outcome", string(d.outcome)).Msg("delivery suppressed")
		inboundTotal.WithLabelValues(string(d.outcome)).Inc()
		return res, nil
	}

	// Committed state must not be undone by the gateway hanging up mid-send.
	callCtx := context.WithoutCancel(ctx)
	events, runErr := p.respond(callCtx, sender, hash, text, d, res)

	if err := p.appendEvents(callCtx, events); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, "respond")
		lg.Error().Err(runErr).Int("parts_sent", res.PartsSent).Str("outcome", string(d.outcome)).Msg("inbound processing failed")
		inboundTotal.WithLabelValues(string(OutcomeFailed)).Inc()
		return res, runErr
	}

	lg.Info().Str("outcome", string(d.outcome)).Bool("welcomed", d.welcome).Int("parts_sent", res.PartsSent).Msg("inbound processed")
	inboundTotal.WithLabelValues(string(d.outcome)).Inc()
	return res, nil
}

// decide runs the read-decide-write step under the lock and in one
// transaction: purge, dedup, directory, compliance, welcome flag and rate
// admission. DUP and BLOCK events are written here since nothing follows them.
func (p *Pipeline) decide(ctx context.Context, hash, text, id string, now time.Time) (decision, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var d decision
	err := p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.PurgeSeen(ctx, tx, now.Add(-p.dedupTTL())); err != nil {
			return err
		}
		seen, err := repo.IsSeen(ctx, tx, id)
		if err != nil {
			return err
		}
		if seen {
			d.outcome = OutcomeDuplicate
			return repo.AppendEvents(ctx, tx, newEvent(now, domain.DirectionDUP, hash, text, datatypes.JSONMap{"messageId": id}))
		}
		if err := repo.MarkSeen(ctx, tx, id, now); err != nil {
			return err
		}

		sub, _, err := repo.GetOrCreateSubscriber(ctx, tx, hash, now)
		if err != nil {
			return err
		}
		sub.LastSeen = now

		switch cmd := ClassifyCommand(text); {
		case sub.OptedOut:
			d.outcome = OutcomeBlocked
			if err := repo.AppendEvents(ctx, tx, newEvent(now, domain.DirectionBLOCK, hash, text, datatypes.JSONMap{"reason": "opted_out"})); err != nil {
				return err
			}
		case cmd == CommandStop:
			d.outcome = OutcomeStopped
			sub.OptedOut = true
		case cmd == CommandHelp:
			d.outcome = OutcomeHelp
		default:
			if !sub.WelcomeSent {
				d.welcome = true
				sub.WelcomeSent = true
			}
			w, err := repo.GetRateWindow(ctx, tx, hash)
			if err != nil {
				return err
			}
			if p.limiter().Admit(w, now) {
				d.outcome = OutcomeAnswered
			} else {
				d.outcome = OutcomeRateLimited
			}
			if err := repo.SaveRateWindow(ctx, tx, w); err != nil {
				return err
			}
		}
		return repo.SaveSubscriber(ctx, tx, sub)
	})
	return d, err
}

// respond performs the outbound side of a decision and returns the events to
// log for everything that was actually delivered.
func (p *Pipeline) respond(ctx context.Context, to, hash, text string, d decision, res *Result) ([]*domain.Event, error) {
	var events []*domain.Event

	if d.welcome {
		if err := p.sendMessage(ctx, to, p.Copy.Welcome(), res); err != nil {
			return events, err
		}
		events = append(events, newEvent(p.now(), domain.DirectionMT, hash, labelWelcome, nil))
	}

	var (
		reply string
		label string
	)
	switch d.outcome {
	case OutcomeStopped:
		reply, label = p.Copy.Unsubscribed(), labelStopConfirm
	case OutcomeHelp:
		reply, label = p.Copy.Help(), labelHelp
	case OutcomeRateLimited:
		reply, label = p.Copy.LimitReached(), labelRateLimit
	case OutcomeAnswered:
		return p.answer(ctx, to, hash, text, res, events)
	default:
		return events, nil
	}

	if err := p.sendMessage(ctx, to, reply, res); err != nil {
		return events, err
	}
	return append(events, newEvent(p.now(), domain.DirectionMT, hash, label, nil)), nil
}

// answer generates, clips, segments and sends the reply, then logs MO and MT.
// On failure the MO is still logged with the error and the delivered part count.
func (p *Pipeline) answer(ctx context.Context, to, hash, text string, res *Result, events []*domain.Event) ([]*domain.Event, error) {
	genCtx, cancel := context.WithTimeout(ctx, p.timeout())
	reply, err := p.Answerer.Generate(genCtx, text)
	cancel()
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrAnswerFailed, err)
		return append(events, newEvent(p.now(), domain.DirectionMO, hash, text, datatypes.JSONMap{"error": err.Error()})), err
	}
	reply = clipWithEllipsis(reply, MaxAnswerRunes)

	before := res.PartsSent
	if err := p.sendMessage(ctx, to, reply, res); err != nil {
		extra := datatypes.JSONMap{"error": err.Error(), "partsSent": res.PartsSent - before}
		return append(events, newEvent(p.now(), domain.DirectionMO, hash, text, extra)), err
	}
	ts := p.now()
	return append(events,
		newEvent(ts, domain.DirectionMO, hash, text, nil),
		newEvent(ts, domain.DirectionMT, hash, reply, nil),
	), nil
}

// sendMessage segments msg and sends the parts in order, stopping at the
// first failure. Parts already sent stay sent.
func (p *Pipeline) sendMessage(ctx context.Context, to, msg string, res *Result) error {
	for i, part := range Segment(msg) {
		sendCtx, cancel := context.WithTimeout(ctx, p.timeout())
		err := p.Sender.Send(sendCtx, to, part)
		cancel()
		if err != nil {
			outboundParts.WithLabelValues("failed").Inc()
			return fmt.Errorf("%w: part %d: %w", ErrSendFailed, i+1, err)
		}
		outboundParts.WithLabelValues("sent").Inc()
		res.PartsSent++
	}
	return nil
}

func (p *Pipeline) appendEvents(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repo.AppendEvents(ctx, tx, events...)
	})
}

func newEvent(ts time.Time, dir domain.Direction, hash, text string, extra datatypes.JSONMap) *domain.Event {
	return &domain.Event{
		CreatedAt:      ts,
		Direction:      dir,
		SubscriberHash: hash,
		Text:           truncateRunes(text, MaxEventTextRunes),
		Extra:          extra,
	}
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}

func (p *Pipeline) limiter() RateLimiter {
	return NewRateLimiter(p.Limiter.PerHour, p.Limiter.PerDay)
}

func (p *Pipeline) dedupTTL() time.Duration {
	if p.DedupTTL > 0 {
		return p.DedupTTL
	}
	return DefaultDedupTTL
}

func (p *Pipeline) timeout() time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return DefaultCollaboratorTimeout
}
