package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

// Audio formats on the two legs of a voice session.
const (
	InputMIME        = "audio/pcm;rate=16000"
	InputSampleRate  = 16000
	OutputSampleRate = 24000
	VoiceName        = "Zephyr"
)

// Voice event types written to the client next to the audio stream.
const (
	EventAction       = "action"
	EventText         = "text"
	EventInterrupted  = "interrupted"
	EventTurnComplete = "turn_complete"
)

// VoiceEvent is a non-audio message for the client.
type VoiceEvent struct {
	Type   string  `json:"type"`
	Action *Result `json:"action,omitempty"`
	Text   string  `json:"text,omitempty"`
}

// LiveSession is one open Gemini Live session.
type LiveSession interface {
	SendAudio(pcm []byte) error
	SendToolResponses(responses []*genai.FunctionResponse) error
	Receive() (*genai.LiveServerMessage, error)
	Close() error
}

// LiveConnector opens live sessions.
type LiveConnector interface {
	Connect(ctx context.Context) (LiveSession, error)
}

// AudioConn is the client side of a voice session: raw 16 kHz PCM in,
// 24 kHz PCM and events out.
type AudioConn interface {
	ReadAudio() ([]byte, error)
	WriteAudio(pcm []byte) error
	WriteEvent(ev VoiceEvent) error
	Close() error
}

// GenaiLive opens sessions through the Gemini Live API.
type GenaiLive struct {
	Live  *genai.Live
	Model string
}

// Connect implements LiveConnector.
func (g GenaiLive) Connect(ctx context.Context) (LiveSession, error) {
	sess, err := g.Live.Connect(ctx, g.Model, &genai.LiveConnectConfig{
		ResponseModalities: []genai.Modality{genai.ModalityAudio},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: VoiceName},
			},
		},
		SystemInstruction: genai.NewContentFromText(VoiceInstruction, genai.RoleUser),
		Tools:             Tools(),
	})
	if err != nil {
		return nil, fmt.Errorf("opening live session: %w", err)
	}
	return genaiSession{sess}, nil
}

type genaiSession struct {
	s *genai.Session
}

func (g genaiSession) SendAudio(pcm []byte) error {
	return g.s.SendRealtimeInput(genai.LiveRealtimeInput{
		Audio: &genai.Blob{MIMEType: InputMIME, Data: pcm},
	})
}

func (g genaiSession) SendToolResponses(responses []*genai.FunctionResponse) error {
	return g.s.SendToolResponse(genai.LiveToolResponseInput{FunctionResponses: responses})
}

func (g genaiSession) Receive() (*genai.LiveServerMessage, error) {
	return g.s.Receive()
}

func (g genaiSession) Close() error {
	return g.s.Close()
}

// Voice bridges a client audio connection to a live model session.
type Voice struct {
	connector  LiveConnector
	dispatcher *Dispatcher
	onAction   func(Result)
}

// NewVoice returns a voice bridge. onAction, if set, is called after every
// tool call the model makes.
func NewVoice(connector LiveConnector, d *Dispatcher, onAction func(Result)) *Voice {
	return &Voice{connector: connector, dispatcher: d, onAction: onAction}
}

// Run opens a live session and pumps audio both ways until the client
// disconnects, the model closes the session or ctx is cancelled. Both the
// session and conn are closed on return.
func (v *Voice) Run(ctx context.Context, conn AudioConn) error {
	sess, err := v.connector.Connect(ctx)
	if err != nil {
		conn.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		sess.Close()
		conn.Close()
		return nil
	})

	g.Go(func() error {
		defer cancel()
		for {
			pcm, err := conn.ReadAudio()
			if err != nil {
				return stopped(gctx, err)
			}
			if len(pcm) == 0 {
				continue
			}
			if err := sess.SendAudio(pcm); err != nil {
				return stopped(gctx, fmt.Errorf("sending audio: %w", err))
			}
		}
	})

	g.Go(func() error {
		defer cancel()
		for {
			msg, err := sess.Receive()
			if err != nil {
				return stopped(gctx, err)
			}
			if err := v.handle(gctx, sess, conn, msg); err != nil {
				return stopped(gctx, err)
			}
		}
	})

	// Whichever pump ends first cancels ctx; the watcher then closes both
	// ends so the other pump unblocks.
	err = g.Wait()
	if err != nil {
		slog.Warn("voice session ended with error", "error", err)
		return err
	}
	slog.Info("voice session ended")
	return nil
}

func (v *Voice) handle(ctx context.Context, sess LiveSession, conn AudioConn, msg *genai.LiveServerMessage) error {
	if msg == nil {
		return nil
	}

	if sc := msg.ServerContent; sc != nil {
		if sc.ModelTurn != nil {
			for _, part := range sc.ModelTurn.Parts {
				switch {
				case part == nil:
				case part.InlineData != nil && len(part.InlineData.Data) > 0:
					if err := conn.WriteAudio(part.InlineData.Data); err != nil {
						return fmt.Errorf("writing audio: %w", err)
					}
				case part.Text != "" && !part.Thought:
					if err := conn.WriteEvent(VoiceEvent{Type: EventText, Text: part.Text}); err != nil {
						return fmt.Errorf("writing event: %w", err)
					}
				}
			}
		}
		if sc.Interrupted {
			if err := conn.WriteEvent(VoiceEvent{Type: EventInterrupted}); err != nil {
				return fmt.Errorf("writing event: %w", err)
			}
		}
		if sc.TurnComplete {
			if err := conn.WriteEvent(VoiceEvent{Type: EventTurnComplete}); err != nil {
				return fmt.Errorf("writing event: %w", err)
			}
		}
	}

	if msg.ToolCall == nil || len(msg.ToolCall.FunctionCalls) == 0 {
		return nil
	}

	responses := make([]*genai.FunctionResponse, 0, len(msg.ToolCall.FunctionCalls))
	for _, call := range msg.ToolCall.FunctionCalls {
		if call == nil {
			continue
		}
		res := v.dispatcher.Dispatch(ctx, call.Name, call.Args)
		if v.onAction != nil {
			v.onAction(res)
		}
		if err := conn.WriteEvent(VoiceEvent{Type: EventAction, Action: &res}); err != nil {
			return fmt.Errorf("writing event: %w", err)
		}
		responses = append(responses, &genai.FunctionResponse{
			ID:       call.ID,
			Name:     call.Name,
			Response: res.Response(),
		})
	}
	if err := sess.SendToolResponses(responses); err != nil {
		return fmt.Errorf("sending tool response: %w", err)
	}
	return nil
}

// stopped turns the errors a pump sees on a normal shutdown into nil.
func stopped(ctx context.Context, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return nil
	}
	return err
}
