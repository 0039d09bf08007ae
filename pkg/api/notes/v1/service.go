package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const NoteAPI_ServiceName = "notes.v1.NoteAPI"

const (
	NoteAPI_Signup_FullMethodName             = "/notes.v1.NoteAPI/Signup"
	NoteAPI_Login_FullMethodName              = "/notes.v1.NoteAPI/Login"
	NoteAPI_GetNote_FullMethodName            = "/notes.v1.NoteAPI/GetNote"
	NoteAPI_CreateNote_FullMethodName         = "/notes.v1.NoteAPI/CreateNote"
	NoteAPI_UpdateNote_FullMethodName         = "/notes.v1.NoteAPI/UpdateNote"
	NoteAPI_DeleteNote_FullMethodName         = "/notes.v1.NoteAPI/DeleteNote"
	NoteAPI_ListNotes_FullMethodName          = "/notes.v1.NoteAPI/ListNotes"
	NoteAPI_GetUserByEmail_FullMethodName     = "/notes.v1.NoteAPI/GetUserByEmail"
	NoteAPI_ShareNote_FullMethodName          = "/notes.v1.NoteAPI/ShareNote"
	NoteAPI_ChangePermission_FullMethodName   = "/notes.v1.NoteAPI/ChangePermission"
	NoteAPI_RemoveCollaborator_FullMethodName = "/notes.v1.NoteAPI/RemoveCollaborator"
)

// PublicMethods do not require an authorization header.
var PublicMethods = []string{
	NoteAPI_Signup_FullMethodName,
	NoteAPI_Login_FullMethodName,
}

type NoteAPIClient interface {
	Signup(ctx context.Context, in *SignupRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	GetNote(ctx context.Context, in *GetNoteRequest, opts ...grpc.CallOption) (*Note, error)
	CreateNote(ctx context.Context, in *CreateNoteRequest, opts ...grpc.CallOption) (*Note, error)
	UpdateNote(ctx context.Context, in *UpdateNoteRequest, opts ...grpc.CallOption) (*Note, error)
	DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*Empty, error)
	ListNotes(ctx context.Context, in *ListNotesRequest, opts ...grpc.CallOption) (*ListNotesResponse, error)
	GetUserByEmail(ctx context.Context, in *GetUserByEmailRequest, opts ...grpc.CallOption) (*User, error)
	ShareNote(ctx context.Context, in *ShareNoteRequest, opts ...grpc.CallOption) (*Empty, error)
	ChangePermission(ctx context.Context, in *ChangePermissionRequest, opts ...grpc.CallOption) (*Empty, error)
	RemoveCollaborator(ctx context.Context, in *RemoveCollaboratorRequest, opts ...grpc.CallOption) (*Empty, error)
}

type noteAPIClient struct {
	cc grpc.ClientConnInterface
}

// NewNoteAPIClient returns a client that always negotiates the JSON codec.
func NewNoteAPIClient(cc grpc.ClientConnInterface) NoteAPIClient {
	return &noteAPIClient{cc: cc}
}

func invoke[Resp any](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	in any,
	opts []grpc.CallOption,
) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *noteAPIClient) Signup(ctx context.Context, in *SignupRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, NoteAPI_Signup_FullMethodName, in, opts)
}

func (c *noteAPIClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, NoteAPI_Login_FullMethodName, in, opts)
}

func (c *noteAPIClient) GetNote(ctx context.Context, in *GetNoteRequest, opts ...grpc.CallOption) (*Note, error) {
	return invoke[Note](ctx, c.cc, NoteAPI_GetNote_FullMethodName, in, opts)
}

func (c *noteAPIClient) CreateNote(ctx context.Context, in *CreateNoteRequest, opts ...grpc.CallOption) (*Note, error) {
	return invoke[Note](ctx, c.cc, NoteAPI_CreateNote_FullMethodName, in, opts)
}

func (c *noteAPIClient) UpdateNote(ctx context.Context, in *UpdateNoteRequest, opts ...grpc.CallOption) (*Note, error) {
	return invoke[Note](ctx, c.cc, NoteAPI_UpdateNote_FullMethodName, in, opts)
}

func (c *noteAPIClient) DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, NoteAPI_DeleteNote_FullMethodName, in, opts)
}

func (c *noteAPIClient) ListNotes(ctx context.Context, in *ListNotesRequest, opts ...grpc.CallOption) (*ListNotesResponse, error) {
	return invoke[ListNotesResponse](ctx, c.cc, NoteAPI_ListNotes_FullMethodName, in, opts)
}

func (c *noteAPIClient) GetUserByEmail(ctx context.Context, in *GetUserByEmailRequest, opts ...grpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, NoteAPI_GetUserByEmail_FullMethodName, in, opts)
}

func (c *noteAPIClient) ShareNote(ctx context.Context, in *ShareNoteRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, NoteAPI_ShareNote_FullMethodName, in, opts)
}

func (c *noteAPIClient) ChangePermission(ctx context.Context, in *ChangePermissionRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, NoteAPI_ChangePermission_FullMethodName, in, opts)
}

func (c *noteAPIClient) RemoveCollaborator(ctx context.Context, in *RemoveCollaboratorRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, NoteAPI_RemoveCollaborator_FullMethodName, in, opts)
}

type NoteAPIServer interface {
	Signup(context.Context, *SignupRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	GetNote(context.Context, *GetNoteRequest) (*Note, error)
	CreateNote(context.Context, *CreateNoteRequest) (*Note, error)
	UpdateNote(context.Context, *UpdateNoteRequest) (*Note, error)
	DeleteNote(context.Context, *DeleteNoteRequest) (*Empty, error)
	ListNotes(context.Context, *ListNotesRequest) (*ListNotesResponse, error)
	GetUserByEmail(context.Context, *GetUserByEmailRequest) (*User, error)
	ShareNote(context.Context, *ShareNoteRequest) (*Empty, error)
	ChangePermission(context.Context, *ChangePermissionRequest) (*Empty, error)
	RemoveCollaborator(context.Context, *RemoveCollaboratorRequest) (*Empty, error)
}

// UnimplementedNoteAPIServer must be embedded to have forward compatible implementations.
type UnimplementedNoteAPIServer struct{}

func (UnimplementedNoteAPIServer) Signup(context.Context, *SignupRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Signup not implemented")
}

func (UnimplementedNoteAPIServer) Login(context.Context, *LoginRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}

func (UnimplementedNoteAPIServer) GetNote(context.Context, *GetNoteRequest) (*Note, error) {
	return nil, status.Error(codes.Unimplemented, "method GetNote not implemented")
}

func (UnimplementedNoteAPIServer) CreateNote(context.Context, *CreateNoteRequest) (*Note, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateNote not implemented")
}

func (UnimplementedNoteAPIServer) UpdateNote(context.Context, *UpdateNoteRequest) (*Note, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateNote not implemented")
}

func (UnimplementedNoteAPIServer) DeleteNote(context.Context, *DeleteNoteRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteNote not implemented")
}

func (UnimplementedNoteAPIServer) ListNotes(context.Context, *ListNotesRequest) (*ListNotesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListNotes not implemented")
}

func (UnimplementedNoteAPIServer) GetUserByEmail(context.Context, *GetUserByEmailRequest) (*User, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUserByEmail not implemented")
}

func (UnimplementedNoteAPIServer) ShareNote(context.Context, *ShareNoteRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ShareNote not implemented")
}

func (UnimplementedNoteAPIServer) ChangePermission(context.Context, *ChangePermissionRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ChangePermission not implemented")
}

func (UnimplementedNoteAPIServer) RemoveCollaborator(context.Context, *RemoveCollaboratorRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveCollaborator not implemented")
}

func RegisterNoteAPIServer(s grpc.ServiceRegistrar, srv NoteAPIServer) {
	s.RegisterService(&NoteAPI_ServiceDesc, srv)
}

func unary[Req, Resp any](name string, call func(NoteAPIServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + NoteAPI_ServiceName + "/" + name

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(NoteAPIServer), ctx, in)
			}

			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(NoteAPIServer), ctx, req.(*Req))
			}

			return interceptor(ctx, in, info, handler)
		},
	}
}

var NoteAPI_ServiceDesc = grpc.ServiceDesc{
	ServiceName: NoteAPI_ServiceName,
	HandlerType: (*NoteAPIServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Signup", NoteAPIServer.Signup),
		unary("Login", NoteAPIServer.Login),
		unary("GetNote", NoteAPIServer.GetNote),
		unary("CreateNote", NoteAPIServer.CreateNote),
		unary("UpdateNote", NoteAPIServer.UpdateNote),
		unary("DeleteNote", NoteAPIServer.DeleteNote),
		unary("ListNotes", NoteAPIServer.ListNotes),
		unary("GetUserByEmail", NoteAPIServer.GetUserByEmail),
		unary("ShareNote", NoteAPIServer.ShareNote),
		unary("ChangePermission", NoteAPIServer.ChangePermission),
		unary("RemoveCollaborator", NoteAPIServer.RemoveCollaborator),
	},
	Metadata: "notes/v1/service.go",
}
