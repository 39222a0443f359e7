package server

import (
	"context"
	"log"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/xtding233/rarity-engine/internal/gacha"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "rarity.v1.DrawService"

const (
	resolveDrawMethod = "/" + ServiceName + "/ResolveDraw"
	previewOddsMethod = "/" + ServiceName + "/PreviewOdds"
)

// DrawServer is the server API for the draw service. Requests carry the
// player id; responses are JSON-shaped structs.
type DrawServer interface {
	ResolveDraw(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	PreviewOdds(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// DrawServiceDesc describes the draw service for grpc.Server.RegisterService.
var DrawServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DrawServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ResolveDraw", Handler: resolveDrawHandler},
		{MethodName: "PreviewOdds", Handler: previewOddsHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterDrawServer registers srv on s.
func RegisterDrawServer(s grpc.ServiceRegistrar, srv DrawServer) {
	s.RegisterService(&DrawServiceDesc, srv)
}

func resolveDrawHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DrawServer).ResolveDraw(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: resolveDrawMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DrawServer).ResolveDraw(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func previewOddsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DrawServer).PreviewOdds(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: previewOddsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DrawServer).PreviewOdds(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// DrawClient calls the draw service.
type DrawClient struct {
	cc grpc.ClientConnInterface
}

func NewDrawClient(cc grpc.ClientConnInterface) *DrawClient {
	return &DrawClient{cc: cc}
}

func (c *DrawClient) ResolveDraw(ctx context.Context, playerID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, resolveDrawMethod, wrapperspb.String(playerID), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DrawClient) PreviewOdds(ctx context.Context, playerID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, previewOddsMethod, wrapperspb.String(playerID), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Service adapts a gacha.Engine to DrawServer.
type Service struct {
	engine *gacha.Engine
}

// NewService creates the draw service.
func NewService(engine *gacha.Engine) *Service {
	return &Service{engine: engine}
}

func playerID(in *wrapperspb.StringValue) (string, error) {
	id := strings.TrimSpace(in.GetValue())
	if id == "" {
		return "", status.Error(codes.InvalidArgument, "player id is required")
	}
	return id, nil
}

func internalError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return status.FromContextError(ctxErr).Err()
	}
	log.Printf("%s: %v", op, err)
	return status.Errorf(codes.Internal, "%s failed", op)
}

// ResolveDraw performs one draw. A draw with no character is a normal
// response with found=false, not an error.
func (s *Service) ResolveDraw(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := playerID(in)
	if err != nil {
		return nil, err
	}
	res, err := s.engine.Resolve(ctx, id)
	if err != nil {
		return nil, internalError(ctx, "resolve draw", err)
	}
	out, err := structpb.NewStruct(map[string]any{
		"found":             res.Found,
		"tier":              res.Tier.String(),
		"color":             res.Tier.Color(),
		"glyph":             res.Tier.Glyph(),
		"character_id":      res.Character.ID,
		"character_name":    res.Character.Name,
		"value":             res.Character.Value,
		"override_consumed": res.OverrideConsumed,
		"reason":            res.Reason.String(),
	})
	if err != nil {
		return nil, internalError(ctx, "encode draw", err)
	}
	return out, nil
}

// PreviewOdds reports the percentages a chance draw would use right now.
func (s *Service) PreviewOdds(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := playerID(in)
	if err != nil {
		return nil, err
	}
	tbl, adj, err := s.engine.Odds(ctx, id)
	if err != nil {
		return nil, internalError(ctx, "preview odds", err)
	}

	pct := tbl.Weights.Percentages()
	weights := make(map[string]any, len(gacha.Tiers))
	for _, t := range gacha.Tiers {
		weights[t.String()] = pct[t]
	}
	mods := make([]any, 0)
	for _, m := range adj.Modifiers() {
		mods = append(mods, m.String())
	}
	fields := map[string]any{
		"weights":   weights,
		"modifiers": mods,
		"fallback":  tbl.Fallback.String(),
		"dropped":   len(adj.Dropped),
	}
	if adj.HasFloor {
		fields["floor"] = adj.Floor.String()
	}
	if adj.Override != nil {
		fields["override"] = adj.Override.Tier.String()
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, internalError(ctx, "encode odds", err)
	}
	return out, nil
}

var _ DrawServer = (*Service)(nil)
