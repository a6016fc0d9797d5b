package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/mozillazg/go-pinyin"
	"github.com/shopspring/decimal"
	"github.com/staffing-office/shift-board/backend/internal/calendar"
	"github.com/staffing-office/shift-board/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

var stations = []string{"新宿", "渋谷", "池袋", "品川", "上野", "秋葉原", "恵比寿", "中野"}
var companies = []string{"", "", "東和スタッフ", "北辰企画", "青葉サービス"}
var locations = []string{"会場A", "会場B", "会場C", "本社", "新宿店", "渋谷店"}
var staffRoles = []string{domain.RoleCloser, domain.RoleCloser, domain.RoleGirl}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateStaffIDFromName 取每个字拼音的前若干个字母，再接上几位数字
func GenerateStaffIDFromName(name string) string {
	pinyinArray := pinyin.LazyConvert(name, nil)
	id := ""

	for _, p := range pinyinArray {
		length := rand.Intn(len(p)) + 1
		id += p[:length]
	}

	digitsLength := rand.Intn(3) + 2
	for i := 0; i < digitsLength; i++ {
		id += string(digits[rand.Intn(len(digits))])
	}

	return id
}

// PhoneticName 返回名字的完整拼音，用作读音列
func PhoneticName(name string) string {
	return strings.Join(pinyin.LazyConvert(name, nil), " ")
}

func generateRandomPhone() string {
	return fmt.Sprintf("090-%04d-%04d", rand.Intn(10000), rand.Intn(10000))
}

// 单价以 500 为单位
func generateRandomRate(min, max int) decimal.Decimal {
	steps := (max - min) / 500
	return decimal.NewFromInt(int64(min + rand.Intn(steps+1)*500))
}

func GenerateRandomStaffMember() *domain.StaffMember {
	name := GenerateRandomChineseName()
	weekday := generateRandomRate(10000, 20000)

	return &domain.StaffMember{
		ID:             GenerateStaffIDFromName(name),
		Name:           name,
		PhoneticName:   PhoneticName(name),
		NearestStation: stations[rand.Intn(len(stations))],
		WeekdayRate:    weekday,
		HolidayRate:    weekday.Add(generateRandomRate(2000, 5000)),
		Phone:          generateRandomPhone(),
		Role:           staffRoles[rand.Intn(len(staffRoles))],
		Company:        companies[rand.Intn(len(companies))],
	}
}

// GenerateRandomMonthShifts 为名单中每个人随机生成一个月的出勤情况
// 大约一半的格子保持未定，出勤的格子大多分配了地点
func GenerateRandomMonthShifts(roster []domain.StaffMember, year int, month time.Month) ([]domain.Shift, error) {
	dates, err := calendar.Month(year, month)
	if err != nil {
		return nil, err
	}

	shifts := make([]domain.Shift, 0)
	for _, staff := range roster {
		for _, d := range dates {
			var shift domain.Shift
			switch n := rand.Intn(10); {
			case n < 5:
				continue
			case n < 8:
				shift = domain.Shift{StaffID: staff.ID, Date: d.Date, Status: domain.StatusAvailable}
				if rand.Intn(10) < 7 {
					shift.Location = locations[rand.Intn(len(locations))]
				}
			default:
				shift = domain.Shift{StaffID: staff.ID, Date: d.Date, Status: domain.StatusUnavailable}
			}
			shifts = append(shifts, shift)
		}
	}

	return shifts, nil
}

// GenerateRandomCaseCounts 周末的案件数更多
func GenerateRandomCaseCounts(year int, month time.Month) (map[civil.Date]int, error) {
	dates, err := calendar.Month(year, month)
	if err != nil {
		return nil, err
	}

	counts := make(map[civil.Date]int, len(dates))
	for _, d := range dates {
		if d.IsWeekend {
			counts[d.Date] = rand.Intn(8) + 4
		} else {
			counts[d.Date] = rand.Intn(5)
		}
	}
	return counts, nil
}
