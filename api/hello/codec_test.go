package hello

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestCodecRegistered(t *testing.T) {
	codec := encoding.GetCodec(CodecName)
	require.NotNil(t, codec)
	assert.Equal(t, CodecName, codec.Name())
}

func TestCodec_Structs(t *testing.T) {
	c := Codec{}

	data, err := c.Marshal(&HelloRequest{Name: "World"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"World"}`, string(data))

	var add AddRequest
	require.NoError(t, c.Unmarshal([]byte(`{"a":9007199254740993,"b":-1}`), &add))
	assert.Equal(t, int64(9007199254740993), add.A)
	assert.Equal(t, int64(-1), add.B)

	createdAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	data, err = c.Marshal(&ListCallsReply{Calls: []*Call{{ID: "1", Operation: "greet", CreatedAt: createdAt}}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"created_at":"2026-01-01T00:00:00Z"`)
}

func TestCodec_ProtoMessages(t *testing.T) {
	c := Codec{}

	data, err := c.Marshal(wrapperspb.String("Hello, !"))
	require.NoError(t, err)
	assert.JSONEq(t, `"Hello, !"`, string(data))

	out := &wrapperspb.Int64Value{}
	require.NoError(t, c.Unmarshal([]byte(`"5"`), out))
	assert.Equal(t, int64(5), out.GetValue())
}

func TestCodec_UnmarshalError(t *testing.T) {
	var req AddRequest
	err := Codec{}.Unmarshal([]byte(`{"a":"two"}`), &req)
	assert.ErrorContains(t, err, "json codec")
}

func TestNilGetters(t *testing.T) {
	var req *HelloRequest
	assert.Equal(t, "", req.GetName())

	var add *AddRequest
	assert.Zero(t, add.GetA())
	assert.Zero(t, add.GetB())

	var list *ListCallsRequest
	assert.Zero(t, list.GetLimit())
}
