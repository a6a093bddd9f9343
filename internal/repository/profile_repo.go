package repository

import (
	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/internal/model"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(profile *model.Profile) error {
	return r.db.Create(profile).Error
}

func (r *ProfileRepository) GetByID(id int64) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Where("id = ?", id).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) GetByEmail(email string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Where("email = ?", email).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) GetByUsername(username string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Where("username = ?", username).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) Update(profile *model.Profile) error {
	return r.db.Save(profile).Error
}

func (r *ProfileRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Profile{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ProfileRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Profile{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *ProfileRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Profile{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// CASInterviewerStatus 条件更新面试官状态：仅当前状态等于 from 时改为 to。
// 返回是否更新成功，用于并发下的互斥保护。
func (r *ProfileRepository) CASInterviewerStatus(id int64, from, to string) (bool, error) {
	res := r.db.Model(&model.Profile{}).
		Where("id = ? AND role = ? AND interviewer_status = ?", id, model.RoleInterviewer, from).
		Update("interviewer_status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetInterviewerStatus 面试官自助切换状态（offline/idle/break）。
// busy 不在此列，只能由匹配引擎事务进入；离开 busy 也只能由完成/跳过/对账释放。
func (r *ProfileRepository) SetInterviewerStatus(id int64, status string) (bool, error) {
	res := r.db.Model(&model.Profile{}).
		Where("id = ? AND role = ? AND interviewer_status <> ?", id, model.RoleInterviewer, model.InterviewerBusy).
		Update("interviewer_status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListBusyWithoutOpenSession 查找卡在 busy 但没有任何进行中 session 的面试官。
// 这是崩溃恢复用的对账查询，不在热路径上。
func (r *ProfileRepository) ListBusyWithoutOpenSession() ([]*model.Profile, error) {
	var profiles []*model.Profile
	open := r.db.Model(&model.Session{}).Select("interviewer_id").Where("ended_at IS NULL")
	err := r.db.Where("role = ? AND interviewer_status = ?", model.RoleInterviewer, model.InterviewerBusy).
		Where("id NOT IN (?)", open).
		Find(&profiles).Error
	return profiles, err
}

// ChangeRole 变更角色并记录审计行，两个写入在同一事务内
func (r *ProfileRepository) ChangeRole(profileID, actorID int64, newRole string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var profile model.Profile
		if err := tx.Where("id = ?", profileID).First(&profile).Error; err != nil {
			return err
		}
		if profile.Role == newRole {
			return nil
		}

		fields := map[string]interface{}{"role": newRole}
		// 不再是面试官时清掉面试官状态
		if newRole != model.RoleInterviewer {
			fields["interviewer_status"] = model.InterviewerOffline
		}
		if err := tx.Model(&model.Profile{}).Where("id = ?", profileID).Updates(fields).Error; err != nil {
			return err
		}

		change := &model.RoleChange{
			ProfileID: profileID,
			ActorID:   actorID,
			OldRole:   profile.Role,
			NewRole:   newRole,
		}
		return tx.Create(change).Error
	})
}

func (r *ProfileRepository) ListRoleChanges(profileID int64) ([]*model.RoleChange, error) {
	var changes []*model.RoleChange
	err := r.db.Where("profile_id = ?", profileID).Order("created_at DESC").Find(&changes).Error
	return changes, err
}

// DeleteCascade 删除用户并级联删除其作为候选人的申请
func (r *ProfileRepository) DeleteCascade(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("candidate_id = ?", id).Delete(&model.Application{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Profile{}).Error
	})
}
