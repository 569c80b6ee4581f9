package game

import (
	"fmt"
	"log"
)

// ListenerRegistry 注册环境监听器
//
// 监听器对揭开流程不是必需的：注册失败（返回错误或 panic）只记录日志，
// 不向调用方传播。
type ListenerRegistry struct {
	registered []string
	failed     []string
}

// NewListenerRegistry 创建监听器注册表
func NewListenerRegistry() *ListenerRegistry {
	return &ListenerRegistry{}
}

// Register 执行注册函数，返回是否成功
func (r *ListenerRegistry) Register(name string, register func() error) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[Listeners] failed to register %s listener: %v", name, rec)
			r.failed = append(r.failed, name)
			ok = false
		}
	}()

	if register == nil {
		err := fmt.Errorf("nil registration function")
		log.Printf("[Listeners] failed to register %s listener: %v", name, err)
		r.failed = append(r.failed, name)
		return false
	}

	if err := register(); err != nil {
		log.Printf("[Listeners] failed to register %s listener: %v", name, err)
		r.failed = append(r.failed, name)
		return false
	}

	r.registered = append(r.registered, name)
	return true
}

// Registered 注册成功的监听器名称
func (r *ListenerRegistry) Registered() []string {
	return append([]string(nil), r.registered...)
}

// Failed 注册失败的监听器名称
func (r *ListenerRegistry) Failed() []string {
	return append([]string(nil), r.failed...)
}
