package client

import (
	"context"
	"errors"

	pool "github.com/jolestar/go-commons-pool/v2"
)

// 使用pool时，你需要告诉我 我怎么创建一个连接，怎么摧毁一个连接，也就是要实现一个接口PooledObjectFactory

type connectionFactory struct {
	Addr string
}

// MakeObject 创建一个连接
func (f *connectionFactory) MakeObject(ctx context.Context) (*pool.PooledObject, error) {
	c, err := MakeClient(f.Addr)
	if err != nil {
		return nil, err
	}
	return pool.NewPooledObject(c), nil
}

// DestroyObject 摧毁一个连接
func (f *connectionFactory) DestroyObject(ctx context.Context, object *pool.PooledObject) error {
	c, ok := object.Object.(*Client)
	if !ok {
		return errors.New("type mismatch")
	}
	return c.Close()
}

func (f *connectionFactory) ValidateObject(ctx context.Context, object *pool.PooledObject) bool {
	// do validate
	return true
}

func (f *connectionFactory) ActivateObject(ctx context.Context, object *pool.PooledObject) error {
	// do activate
	return nil
}

func (f *connectionFactory) PassivateObject(ctx context.Context, object *pool.PooledObject) error {
	// do passivate
	return nil
}

// NewPool creates a pool of connections to addr
func NewPool(ctx context.Context, addr string) *pool.ObjectPool {
	return pool.NewObjectPoolWithDefaultConfig(ctx, &connectionFactory{Addr: addr})
}
