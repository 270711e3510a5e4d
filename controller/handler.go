package controller

import "forumcore/logic"

// Handler 持有业务入口，各 *Handler 方法注册到路由
type Handler struct {
	svc *logic.Service
}

func NewHandler(svc *logic.Service) *Handler {
	return &Handler{svc: svc}
}
