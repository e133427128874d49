package cron

import log "log/slog"

// InitCron 注册全部定时任务并启动引擎
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	mgr.Start()
	log.Info("定时任务注册完成")
	return nil
}
